package dto

// SanitizeRequest carries raw HTML to strip.
type SanitizeRequest struct {
	RawHTML string `json:"raw_html"`
}

// SanitizeResponse carries the markup-free text.
type SanitizeResponse struct {
	CleanedText string `json:"cleaned_text"`
}

// FileUploadResponse points at the stored file.
type FileUploadResponse struct {
	FileURL string `json:"file_url"`
}
