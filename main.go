/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ricardocr987/squads-scripting/cmd"

func main() {
	cmd.Execute()
}
