package main

import "github.com/scanyard/scanyard/cmd/scanyard"

func main() { scanyard.Execute() }
