package main

import (
	"fmt"
	"os"

	servecmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/serve"
)

func main() {
	cmd := servecmder.NewGeminiCmd()

	cmd.Use = "geminiprox"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .chatproxy/ config directory")

	err := cmd.Execute()
	if err != nil {
		fmt.Printf("Error executing root command: %v\n", err)
		os.Exit(1)
	}
}
