package textile_test

import (
	"context"
	"fmt"

	textile "github.com/alnah/go-textile"
)

// Example demonstrates converting a short document.
func Example() {
	conv, err := textile.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), textile.Input{
		Text: "h2. Hello\n\nA *bold* word.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result.HTML)
	// Output:
	// 	<h2>Hello</h2>
	//
	// 	<p>A <strong>bold</strong> word.</p>
}

// ExampleToHTML shows the one-shot helper with restricted input.
func ExampleToHTML() {
	out, err := textile.ToHTML(`<b>raw</b> and "a link":http://example.com/`, textile.WithRestricted(true), textile.WithRel("nofollow"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(out)
	// Output:
	// 	<p>&lt;b&gt;raw&lt;/b&gt; and <a href="http://example.com/" rel="nofollow">a link</a></p>
}

// ExampleConverter_Convert_frontMatter reads metadata from the document head.
func ExampleConverter_Convert_frontMatter() {
	conv, err := textile.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), textile.Input{
		Text: "---\ntitle: Release notes\n---\np. Fixed.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result.Title)
	// Output: Release notes
}
