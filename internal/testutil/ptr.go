// Package testutil holds helpers shared by tests.
package testutil

func Ptr[T any](v T) *T {
	return &v
}
