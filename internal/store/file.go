package store

import "os"

// WriteFile overwrites path with data. The write is not atomic; a crash
// mid-write can leave a truncated board behind.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
