package planner

import "fmt"

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planner api status %d: %s", e.Status, e.Body)
}
