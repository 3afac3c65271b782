package parser

// preparse consumes bytes from the unconsumed window: it removes NUL
// bytes in place, collapses backslash-newline continuations, counts
// source lines, and hands the surviving bytes to the tokeniser in
// contiguous batches. It returns how many bytes the tokeniser
// consumed and how many the preparser removed from the window; the
// driver shrinks its write cursor by the latter.
func (c *Context) preparse(code []byte) (parsed, removed int) {
	eof := c.eofReached
	c.eofReached = false

	codeLen := len(code)
	for c.preOffset < codeLen {
		switch {
		case code[c.preOffset] == 0:
			if !c.opts.TTYInput {
				c.warnf("ignoring NUL byte at line %d", c.preLine)
			}
			copy(code[c.preOffset:], code[c.preOffset+1:codeLen])
			codeLen--
			removed++

		case code[c.preOffset] == '\n':
			c.preLine++
			c.preOffset++

		case code[c.preOffset] == '\\':
			if c.preOffset+1 == codeLen {
				// Cannot tell a continuation apart from an escape
				// until the next byte arrives.
				goto flush
			}
			if code[c.preOffset+1] == '\n' {
				parsed += c.parsePreparsed(code[parsed:c.preOffset])
				copy(code[c.preOffset:], code[c.preOffset+2:codeLen])
				codeLen -= 2
				removed += 2
				c.lineContinuations++
			} else {
				c.preOffset += 2
			}

		default:
			c.preOffset++
		}
	}

flush:
	c.eofReached = eof
	parsed += c.parsePreparsed(code[parsed:c.preOffset])
	c.preOffset -= parsed
	return parsed, removed
}
