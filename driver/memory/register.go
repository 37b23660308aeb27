package memory

import "github.com/gobeaver/magickit"

func init() {
	magickit.RegisterDriver("memory", func(root string) (magickit.FileSystem, error) {
		return New(), nil
	})
}
