// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"os"

	"github.com/stsysd/axisgraph/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
