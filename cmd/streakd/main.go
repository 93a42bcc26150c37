package main

import "github.com/sandeepkv93/streakd/cmd/streakd/root"

func main() {
	root.Execute()
}
