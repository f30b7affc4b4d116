// Command debug_tokens prints the token stream the scanner produces
// for a snippet of source, grounded on the teacher's cmd/debug_tokens.
package main

import (
	"fmt"
	"os"

	"lox/pkg/scanner"
	"lox/pkg/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug_tokens '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	s := scanner.New(input)

	fmt.Printf("Input: %s\n\n", input)
	fmt.Println("Tokens:")
	fmt.Println("-------")

	for {
		tok := s.NextToken()
		fmt.Printf("line %-4d %s\n", tok.Line, tok)
		if tok.Type == token.EOF {
			break
		}
	}
}
