package md2slides_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	md2slides "github.com/alnah/go-md2slides"
)

func Example() {
	converter, err := md2slides.NewConverter()
	if err != nil {
		log.Fatal(err)
	}
	defer converter.Close()

	markdown := strings.Join([]string{
		"# Quarterly Review",
		"",
		"- revenue up",
		"- churn down",
		"",
		"===",
		"",
		"# Questions?",
	}, "\n")

	result, err := converter.Convert(context.Background(), md2slides.Input{
		Markdown: markdown,
		HTMLOnly: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("slides:", len(result.Deck.Slides))
	fmt.Println("preview:", strings.Contains(string(result.HTML), "Quarterly Review"))
	// Output:
	// slides: 2
	// preview: true
}
