/*
Package config loads corpus build configurations.

	            +-------------+
	            |   Config    |
	            |  (output,   |
	            |   source)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads a config file in any registered format
- Validates the source tree before anything is evaluated
- Anchors relative paths in the tree to the config file's directory

🔄 Flow:
 1. Load picks a parser from the file extension (.corpusrc tries YAML, then HCL)
 2. The parser produces a structural document (maps, arrays, scalars)
 3. The document is either {output, compression, source} or a bare source
 4. Validate decodes the source with package source

📝 Document shape:

	output: corpus.txt        # optional, relative to this file
	compression: gzip         # optional
	source:
	  type: process
	  operations:
	    - type: read_file
	    - type: strip
	  sources:
	    - type: find
	      base: docs
	      file_pattern: '.*\.txt'

HCL files use attributes only; env.NAME reads an environment variable:

	output = "${env.CORPUS_DIR}/corpus.txt"
	source = {
	  type  = "text"
	  texts = ["hello"]
	}

⚡ Failure modes:
- Unknown top-level keys are rejected
- Structural errors in the source tree carry their field path
*/
package config
