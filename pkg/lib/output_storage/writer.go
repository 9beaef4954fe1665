package output_storage

// Write implements io.Writer so an OutputStorage can be used as exec.Cmd.Stdout or
// exec.Cmd.Stderr. The input is copied because exec reuses its read buffer.
// Write never blocks on subscribers and never fails.
func (s *OutputStorage) Write(p []byte) (int, error) {
	if s == nil || len(p) == 0 {
		return len(p), nil
	}

	s.Append(append([]byte(nil), p...))

	return len(p), nil
}
