package keymap

import (
	"unicode"

	"github.com/wisp-editor/wisp/internal/invocation"
)

// Binding is a trie leaf: the invocation template to emit when its key path
// matches, plus whether the node it hangs off is sticky (spec §4.5
// Pending{sticky?}) — a sticky binding keeps its sequence prefix primed
// after dispatch, letting a leader like "g" stay active for repeated use.
// Most bindings are non-sticky.
type Binding struct {
	Invocation invocation.Invocation
	Sticky     bool
}

// Node is one element of a key sequence as the engine matches it: the
// canonical node string (see NodeString) plus the underlying rune for
// character keys, which group nodes like "@digit" match against.
type Node struct {
	Str    string
	Rune   rune
	IsRune bool
}

type matchKind uint8

const (
	matchNone matchKind = iota
	matchPending
	matchOK
)

type queryResult struct {
	kind    matchKind
	binding *Binding

	// captured holds the rune consumed by the last character-group node on
	// the matched path, so a binding like "f @any" receives its argument.
	captured    rune
	hasCaptured bool
}

type trieNode struct {
	children map[string]*trieNode
	binding  *Binding
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// Trie maps key-node paths to bindings, one trie per mode (spec §4.5).
// Paths may contain character-group nodes (@digit, @lower, @upper, @alpha,
// @alnum, @any) which match any rune of that class; a literal child always
// wins over a group child.
type Trie struct {
	root *trieNode
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Insert adds a binding reachable by the given node-string path. Group
// nodes are inserted under their literal "@name" spelling.
func (t *Trie) Insert(path []string, b Binding) {
	node := t.root
	for _, k := range path {
		child, ok := node.children[k]
		if !ok {
			child = newTrieNode()
			node.children[k] = child
		}
		node = child
	}
	bind := b
	node.binding = &bind
}

// groupOrder lists character groups from most to least specific; when a
// rune matches several group children, the most specific wins.
var groupOrder = []string{"@digit", "@lower", "@upper", "@alpha", "@alnum", "@any"}

func groupMatches(name string, r rune) bool {
	switch name {
	case "@digit":
		return r >= '0' && r <= '9'
	case "@lower":
		return unicode.IsLower(r)
	case "@upper":
		return unicode.IsUpper(r)
	case "@alpha":
		return unicode.IsLetter(r)
	case "@alnum":
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	case "@any":
		return true
	default:
		return false
	}
}

// query walks path from the root and reports whether it is a complete
// match, a valid prefix of some longer binding (Pending), or dead (None).
// A node carrying both a binding and children resolves as an immediate
// match: an explicit binding at a prefix always wins over waiting for more
// keys.
func (t *Trie) query(path []Node) queryResult {
	var res queryResult
	node := t.root
	for _, k := range path {
		child, ok := node.children[k.Str]
		if !ok && k.IsRune {
			for _, g := range groupOrder {
				if gc, gok := node.children[g]; gok && groupMatches(g, k.Rune) {
					child, ok = gc, true
					res.captured, res.hasCaptured = k.Rune, true
					break
				}
			}
		}
		if !ok {
			return queryResult{kind: matchNone}
		}
		node = child
	}
	if node.binding != nil {
		res.kind = matchOK
		res.binding = node.binding
		return res
	}
	if len(node.children) > 0 {
		res.kind = matchPending
		return res
	}
	return queryResult{kind: matchNone}
}
