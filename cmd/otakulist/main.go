package main

import "github.com/zfogg/otakulist/internal/cmd"

func main() {
	cmd.Execute()
}
