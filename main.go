package main

import "github.com/honganh1206/professor/cmd"

func main() {
	cmd.Execute()
}
