package entity

// PageResult is the backend's envelope for one page of a larger collection.
type PageResult[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func (p PageResult[T]) Empty() bool {
	return len(p.Content) == 0
}
