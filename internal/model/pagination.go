package model

// Page carries 1-based pagination inputs. Out-of-range values are clamped
// rather than rejected so every listing endpoint behaves the same way.
type Page struct {
	Number int `json:"page_number"`
	Size   int `json:"page_size"`
}

// Clamp normalizes the page: number floors at 1, size falls back to
// defaultSize when non-positive.
func (p Page) Clamp(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages is ceil(total / size).
func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return int(pages)
}
