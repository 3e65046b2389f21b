package ports

// OutputWriter persists the generated source.
//
//go:generate mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type OutputWriter interface {
	// Write replaces the content of path with data, creating parent directories as needed.
	Write(path string, data []byte) error
}
