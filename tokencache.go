package tsglr

// tokenCache is the single-slot memoization spec §4.D describes: on a
// hit at the same byte index and external-token state, the cached
// token is returned (and its node's refcount bumped if already
// materialized); on a miss the lexer runs and overwrites the slot.
type tokenCache struct {
	valid     bool
	byteIndex uint32
	extState  []byte
	token     Token
	leaf      *Node
}

func (c *tokenCache) get(byteIndex uint32, extState []byte) (Token, *Node, bool) {
	if !c.valid || c.byteIndex != byteIndex || !externalTokenStateEq(c.extState, extState) {
		return Token{}, nil, false
	}
	return c.token, c.leaf, true
}

func (c *tokenCache) put(byteIndex uint32, extState []byte, tok Token, leaf *Node) {
	if c.leaf != nil {
		release(c.leaf)
	}
	c.valid = true
	c.byteIndex = byteIndex
	c.extState = append(c.extState[:0], extState...)
	c.token = tok
	c.leaf = retain(leaf)
}

func (c *tokenCache) reset() {
	if c.leaf != nil {
		release(c.leaf)
	}
	*c = tokenCache{}
}
