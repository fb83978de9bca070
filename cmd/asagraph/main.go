/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/neurago/asagraph/cmd/asagraph/cmd"

func main() {
	cmd.Execute()
}
