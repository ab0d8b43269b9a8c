package main

import (
	"github.com/shouni/dream-canvas-kit/cmd"
)

// main はアプリケーションの唯一のエントリーポイントなのだ！
func main() {
	cmd.Execute()
}
