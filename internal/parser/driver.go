package parser

import (
	"io"

	pkgerrors "github.com/pkg/errors"

	perrors "github.com/sdlcforge/parsh/internal/errors"
)

const (
	// ringMinAvailable is the least free space the driver keeps
	// ahead of the write cursor before compacting or growing.
	ringMinAvailable = 1024

	// ringGrowSize is the increment the buffer grows by when
	// compaction alone cannot restore the minimum.
	ringGrowSize = 8192
)

// Run drives the pipeline over the whole input stream. It returns
// nil on a clean end of file, an InputError if the stream cannot be
// read, a SyntaxError on the first fatal diagnostic, and a
// PrematureEOFError when input ends with open lexical or grammatical
// state.
func (c *Context) Run(r io.Reader) (err error) {
	defer c.recoverBail(&err)

	var buf []byte
	head, tail := 0, 0

	for {
		if len(buf)-head < ringMinAvailable {
			if tail > 0 && head-tail <= tail {
				copy(buf, buf[tail:head])
				head -= tail
				tail = 0
			}
			if len(buf)-head < ringMinAvailable {
				buf = append(buf, make([]byte, ringGrowSize)...)
			}
		}

		n, rerr := r.Read(buf[head:])
		if n > 0 {
			head += n
			consumed, removed := c.preparse(buf[tail:head])
			head -= removed
			tail += consumed
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return perrors.NewInputError(pkgerrors.Wrap(rerr, "input stream"))
		}
	}

	c.eofReached = true
	consumed, removed := c.preparse(buf[tail:head])
	head -= removed
	tail += consumed

	if tail != head || c.prematureEOF {
		return perrors.NewPrematureEOFError()
	}
	return nil
}

// RunBytes drives the pipeline over an in-memory source in a single
// window. Used by tests; the backquote sub-parse calls runBytes.
func (c *Context) RunBytes(code []byte) (err error) {
	defer c.recoverBail(&err)
	c.runBytes(code)
	return nil
}

// runBytes is the panic-propagating form of RunBytes, for callers
// already inside the pipeline.
func (c *Context) runBytes(code []byte) {
	buf := make([]byte, len(code))
	copy(buf, code)
	c.eofReached = true
	consumed, removed := c.preparse(buf)
	if consumed != len(buf)-removed || c.prematureEOF {
		c.fail(perrors.NewPrematureEOFError())
	}
}
