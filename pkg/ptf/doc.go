/*
Package ptf reads Pro Tools session files (.ptf, .ptx).

A session is an obfuscated byte stream: a 20-byte cleartext header followed by
XOR-encoded data. Once decoded, the cleartext is a forest of typed blocks,
each carrying an optional payload and nested child blocks.

# Quick Start

	r, err := ptf.Open("song.ptx")
	if err != nil {
	    log.Fatal(err)
	}
	defer r.Close()

	blocks, err := r.Blocks()
	if err != nil {
	    log.Fatal(err)
	}
	for _, b := range blocks {
	    b.Walk(func(b *ptf.Block, depth int) bool {
	        fmt.Printf("%*s0x%04x %d bytes\n", depth*2, "", b.ContentType, len(b.Data))
	        return true
	    })
	}

# Errors

Failures wrap one of the sentinel errors declared in this package; use
errors.Is to classify them. Structural failures are reported as *BlockError
carrying the cleartext offset.

# Concurrency

Cleartext and Blocks are computed once and cached. A Reader may be shared
between goroutines; the returned slices must be treated as read-only.
*/
package ptf
