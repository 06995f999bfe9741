/*
Package source implements the producers at the root of every corpus.

	          +----------+
	          |  Source  | ──▶ text, text, ...
	          +----+-----+
	               |
	   +-----------+-----------+
	   |           |           |
	 text        find       process
	(literal)  (file walk)  (sources + operations)

🎯 Purpose:
- text yields literal strings
- find yields absolute file paths from directory walks (never contents)
- process pulls texts from its children and runs each through an operation chain

🔄 Flow:
 1. Texts (or Decode) validates the structural config tree
 2. Ranging over a source's sequence evaluates it lazily, one text at a time
 3. Every range starts over: directories are walked and files read again

⚡ Failure modes:
- Validation errors carry the field path, e.g. source.sources[1].operations[0].type
- A missing walk root ends the sequence with an error
- Cancelling ctx ends the sequence with ctx.Err()

🔍 Example:

	texts, err := source.Texts(ctx, map[string]any{
		"type": "process",
		"operations": []any{
			map[string]any{"type": "strip"},
			map[string]any{"type": "replace", "old": "WORLD", "new": "there"},
		},
		"sources": []any{
			map[string]any{"type": "text", "texts": []any{"  hello WORLD  "}},
		},
	}, "corpusrc.yaml")
	if err != nil {
		return err
	}
	for t, err := range texts {
		if err != nil {
			return err
		}
		fmt.Println(t) // hello there
	}
*/
package source
