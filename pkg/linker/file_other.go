//go:build !unix

package linker

import "os"

func readFile(name string) ([]byte, func() error, error) {
	contents, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	return contents, nil, nil
}
