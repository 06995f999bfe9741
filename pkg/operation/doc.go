/*
Package operation implements the text transforms applied by process sources.

	   text ──▶ +-------------+ ──▶ text, text, ...
	            |  Operation  |
	            +------+------+
	                   |
	   +-------+-------+-------+--------+-----------+
	   |       |       |       |        |           |
	read_file ref   replace  strip   rstrip   split_lines

🎯 Purpose:
- Maps one input text to zero or more output texts
- Resolves relative paths against the context path it is handed
- Splices in operation chains from external JSON files (ref)

🔄 Flow:
 1. Descriptors are validated by Decode (one dispatch point per type)
 2. Apply runs a chain over a batch: the whole output batch of operation k
    is the input batch of operation k+1
 3. ref loads its files and runs their chains with the referenced file as the
    context path, so nested relative paths follow the file that declared them

⚡ Failure modes:
- Structural errors fail Decode, before anything is evaluated
- read_file skips (and logs a warning for) files that cannot be decoded
- Missing files end the evaluation with an error naming the operation path
- replace with repeat loops until the text stops changing; a rule that never
  settles never returns. ref cycles recurse without limit.

🔍 Example:

	ops, err := operation.DecodeList("operations", []any{
		map[string]any{"type": "strip"},
		map[string]any{"type": "split_lines"},
	})
	if err != nil {
		return err
	}

	lines, err := operation.Apply(ctx, ops, []string{"  a\nb  "}, "corpusrc.yaml")
	// lines == []string{"a", "b"}
*/
package operation
