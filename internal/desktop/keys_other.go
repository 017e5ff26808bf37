//go:build !darwin

package desktop

func postCommandKey(key uint16, down bool) error {
	return ErrUnsupported
}
