// Package facematch wraps the managed face-recognition service. Queries run
// against a named collection of enrolled faces; the externally-assigned
// identifier of the best match maps back to an employee.
package facematch

// Match is the best face found for a query image.
type Match struct {
	EmployeeID string  // external identifier attached at enrollment
	FaceID     string  // service-assigned face identifier
	Confidence float32 // similarity percentage reported by the service
}
