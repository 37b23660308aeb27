package local

import "github.com/gobeaver/magickit"

func init() {
	magickit.RegisterDriver("local", func(root string) (magickit.FileSystem, error) {
		return New(root)
	})
}
