package extractor

import "strings"

var prompts = map[string]string{
	".pdf": "You are an OCR and document extraction model. " +
		"Read the content of this PDF file and extract all readable text. " +
		"Preserve layout and structure using markdown formatting where appropriate. " +
		"Return only the extracted text, no explanations.",
	".docx": "You are a document extraction model. " +
		"Read the content of this Word document and extract all text. " +
		"Preserve formatting using markdown (headings, lists, tables). " +
		"Return only the extracted text, no explanations.",
	".pptx": "You are a presentation extraction model. " +
		"Read the content of this PowerPoint file and extract all text from slides. " +
		"Organize content by slide with clear separators. " +
		"Return only the extracted text, no explanations.",
	".xlsx": "You are a spreadsheet extraction model. " +
		"Read the content of this Excel file and extract all text and data. " +
		"Organize by sheets and preserve table structure using markdown. " +
		"Return only the extracted data, no explanations.",
}

// images and anything not listed above
const defaultPrompt = "You are an OCR and document extraction model. " +
	"Read the content of this file and extract all readable text. " +
	"If it's a structured document, preserve layout using markdown or clear formatting. " +
	"Return only the extracted text, no explanations."

// PromptFor returns the extraction instruction for a file extension.
func PromptFor(ext string) string {
	if p, ok := prompts[strings.ToLower(ext)]; ok {
		return p
	}
	return defaultPrompt
}
