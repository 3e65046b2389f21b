// export_test.go exports private functions for white-box testing.
package logger

// FormatError renders err the way Error prints it in pretty mode.
func FormatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}
