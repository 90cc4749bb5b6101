package docx

import (
	"bytes"
	"encoding/xml"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var nodeReg = regexp.MustCompile(nodeRegexp)

// textNode is one w:t element of a part.
type textNode struct {
	// byte offsets of the whole element in the part.
	start, end int
	// unescaped text.
	text string
}

// paragraph is the ordered text nodes of one w:p. Text of nested
// paragraphs (text boxes) belongs to the nested paragraph.
type paragraph struct {
	nodes []textNode
}

// text joins the text of all nodes.
func (p paragraph) text() string {
	var b strings.Builder
	for _, n := range p.nodes {
		b.WriteString(n.text)
	}
	return b.String()
}

// paragraphs returns paragraphs of the part in document order.
func paragraphs(part []byte) []paragraph {
	var (
		list  []paragraph
		stack []int
	)
	for _, m := range nodeReg.FindAllSubmatchIndex(part, -1) {
		tag := part[m[0]:m[1]]
		switch {
		case bytes.HasPrefix(tag, []byte("</w:p>")):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case bytes.HasPrefix(tag, []byte("<w:p")):
			if bytes.HasSuffix(tag, []byte("/>")) {
				list = append(list, paragraph{})
				continue
			}
			list = append(list, paragraph{})
			stack = append(stack, len(list)-1)
		default:
			if len(stack) == 0 {
				continue
			}
			idx := stack[len(stack)-1]
			list[idx].nodes = append(list[idx].nodes, textNode{
				start: m[0],
				end:   m[1],
				text:  html.UnescapeString(string(part[m[2]:m[3]])),
			})
		}
	}
	return list
}

// replacement of part of paragraph text.
type replacement struct {
	// byte offsets in the joined paragraph text.
	start, end int
	text       string
}

// replace applies sorted, non-overlapping replacements to the paragraph and
// returns new texts of the modified nodes by node index. The first node of a
// token takes the replacement, following nodes of the token lose their part of it.
func (p paragraph) replace(replacements []replacement) map[int]string {
	var (
		texts    = make([]string, len(p.nodes))
		offsets  = make([]int, len(p.nodes))
		modified = make(map[int]struct{})
		offset   int
	)
	for i, n := range p.nodes {
		texts[i] = n.text
		offsets[i] = offset
		offset += len(n.text)
	}

	// node holding byte at joined offset pos.
	nodeAt := func(pos int) int {
		for i := len(p.nodes) - 1; i >= 0; i-- {
			if offsets[i] <= pos && pos < offsets[i]+len(p.nodes[i].text) {
				return i
			}
		}
		return -1
	}

	for k := len(replacements) - 1; k >= 0; k-- {
		r := replacements[k]
		first, last := nodeAt(r.start), nodeAt(r.end-1)
		if first < 0 || last < 0 {
			continue
		}
		if first == last {
			t := texts[first]
			texts[first] = t[:r.start-offsets[first]] + r.text + t[r.end-offsets[first]:]
			modified[first] = struct{}{}
			continue
		}
		texts[first] = texts[first][:r.start-offsets[first]] + r.text
		modified[first] = struct{}{}
		for i := first + 1; i < last; i++ {
			texts[i] = ""
			modified[i] = struct{}{}
		}
		texts[last] = texts[last][r.end-offsets[last]:]
		modified[last] = struct{}{}
	}

	result := make(map[int]string, len(modified))
	for i := range modified {
		result[i] = texts[i]
	}
	return result
}

// encodeText renders text as the content of a w:t element preserving
// spaces. Line breaks, tabs and drawing marks close the element.
func encodeText(text string, drawings []string) string {
	var b strings.Builder
	b.WriteString(textOpen)
	for i, piece := range strings.Split(text, drawingMark) {
		if i%2 == 1 {
			b.WriteString(textClose)
			if idx, err := strconv.Atoi(piece); err == nil && idx >= 0 && idx < len(drawings) {
				b.WriteString(drawings[idx])
			}
			b.WriteString(textOpen)
			continue
		}
		for j, line := range strings.Split(piece, "\n") {
			if j > 0 {
				b.WriteString(lineBreak)
			}
			for k, cell := range strings.Split(line, "\t") {
				if k > 0 {
					b.WriteString(tab)
				}
				xml.EscapeText(&b, []byte(cell))
			}
		}
	}
	b.WriteString(textClose)
	return b.String()
}
