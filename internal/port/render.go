package port

import "github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"

// DocumentRenderer renders one canonical record into opaque document bytes.
// The format is the renderer's concern; callers treat the output whole.
type DocumentRenderer interface {
	Render(title string, rec domain.Record) ([]byte, error)
}
