package eval

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/syntax/ast"
	"github.com/quill-lang/quill/value"
)

// EvalMarkup compiles a markup island into a content tree (spec.md
// §3/§4.4): every markup item becomes one Content node of a builtin
// element kind, joined into a sequence. This is where code-mode values
// produced by `#`-entries are absorbed back into the content world —
// a content result splices in directly, anything else is stringified
// into a text node the way interpolation works in markup.
func (ev *Evaluator) EvalMarkup(scope *Scope, m ast.Markup) (value.Value, error) {
	parts, err := ev.evalMarkupNodes(scope, m.Items())
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return content.Empty(), nil
	}
	return content.Sequence(parts...), nil
}

func (ev *Evaluator) evalMarkupNodes(scope *Scope, nodes []ast.Node) ([]*content.Content, error) {
	var out []*content.Content
	for _, n := range nodes {
		if lbl, ok := n.(ast.Label); ok {
			next, err := ev.attachLabel(out, lbl.Name())
			if err != nil {
				return nil, err
			}
			out = next
			continue
		}
		c, err := ev.evalMarkupItem(scope, n)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		c, err = ev.applyRecipes(c)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

// applyRecipes realizes show rules: each recipe on the active style
// chain whose selector matches c — and whose guard is not yet on c —
// rewrites it exactly once, innermost rule first. The rewritten
// content is re-checked against the remaining recipes, with the guard
// set bounding the loop (spec.md §4.6 "the recipe's transform is
// invoked exactly once").
func (ev *Evaluator) applyRecipes(c *content.Content) (*content.Content, error) {
	recipes := ev.Style.Recipes()
	for pass := 0; pass <= len(recipes); pass++ {
		applied := false
		for _, r := range recipes {
			lbl, _ := c.Label()
			if r.Selector != nil && !r.Selector.Matches(c.ElementKind(), lbl) {
				continue
			}
			guard := content.Guard{File: r.Span.File, Start: r.Span.Start, End: r.Span.End}
			if c.Guarded(guard) {
				continue
			}
			next, err := ev.invokeTransform(r.Transform, c.WithGuard(guard))
			if err != nil {
				return nil, err
			}
			c = next
			applied = true
			break
		}
		if !applied || c == nil {
			return c, nil
		}
	}
	return c, nil
}

// invokeTransform applies one recipe's transform to content: a
// callable receives the (guarded) content as its argument, a content
// value replaces the match outright, and anything else stringifies
// the way interpolation does.
func (ev *Evaluator) invokeTransform(transform value.Value, c *content.Content) (*content.Content, error) {
	switch t := transform.(type) {
	case *Closure, *Builtin:
		out, err := ev.Call(t, value.NewArguments([]value.Value{c}, nil), diag.Span{})
		if err != nil {
			return nil, err
		}
		result, err := ev.coerceToContent(out)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, nil
		}
		return carryGuards(c, result), nil
	case *content.Content:
		return carryGuards(c, t), nil
	default:
		return carryGuards(c, content.Text(transform.Repr())), nil
	}
}

// carryGuards copies the source's guard set onto a transform's output
// when the output is a fresh node, so a recipe that replaces its match
// with new content of the same kind is not re-triggered by it.
func carryGuards(src, out *content.Content) *content.Content {
	for _, g := range src.Guards() {
		if !out.Guarded(g) {
			out = out.WithGuard(g)
		}
	}
	return out
}

// attachLabel implements spec.md §3's "a label ... may be attached to
// a content value": `= Intro <i>` labels the heading itself, not a
// standalone label element, so a trailing `<name>` walks back past any
// intervening whitespace to the nearest real element and calls
// WithLabel on it. A label with nothing preceding it (start of
// document) falls back to a standalone `label` content node, the only
// case spec.md's closed registry element exists for.
func (ev *Evaluator) attachLabel(out []*content.Content, name string) ([]*content.Content, error) {
	for i := len(out) - 1; i >= 0; i-- {
		switch out[i].ElementKind() {
		case "space", "linebreak", "parbreak":
			continue
		default:
			out[i] = out[i].WithLabel(name)
			return out, nil
		}
	}
	lbl, err := ev.elem("label", map[string]value.Value{"name": value.String(name)})
	if err != nil {
		return nil, err
	}
	return append(out, lbl), nil
}

func (ev *Evaluator) elem(kind string, fields map[string]value.Value, children ...*content.Content) (*content.Content, error) {
	schema := ev.Registry.Lookup(kind)
	if schema == nil {
		return nil, fmt.Errorf("%w", diag.New(diag.KindDomainError, diag.Span{}, "no registered element kind: "+kind))
	}
	return content.New(schema, fields, children...), nil
}

func (ev *Evaluator) evalMarkupItem(scope *Scope, n ast.Node) (*content.Content, error) {
	if err := ev.tick(n); err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case ast.Strong:
		body, err := ev.evalMarkupNodes(scope, t.Body())
		if err != nil {
			return nil, err
		}
		return ev.elem("strong", map[string]value.Value{"body": contentOf(body)})
	case ast.Emph:
		body, err := ev.evalMarkupNodes(scope, t.Body())
		if err != nil {
			return nil, err
		}
		return ev.elem("emph", map[string]value.Value{"body": contentOf(body)})
	case ast.Heading:
		items, labelName := hoistTrailingLabel(t.Body())
		body, err := ev.evalMarkupNodes(scope, items)
		if err != nil {
			return nil, err
		}
		h, err := ev.elem("heading", map[string]value.Value{
			"body":  contentOf(body),
			"level": value.Int(t.Level()),
		})
		if err != nil {
			return nil, err
		}
		if labelName != "" {
			h = h.WithLabel(labelName)
		}
		return h, nil
	case ast.ListLikeItem:
		items := t.Body()
		if t.Kind() == syntax.KindTermItem {
			term, rest := splitTermBody(items)
			body, err := ev.evalMarkupNodes(scope, rest)
			if err != nil {
				return nil, err
			}
			return ev.elem("terms.item", map[string]value.Value{
				"term": value.String(term),
				"body": contentOf(body),
			})
		}
		body, err := ev.evalMarkupNodes(scope, items)
		if err != nil {
			return nil, err
		}
		return ev.elem(listItemKind(t.Kind()), map[string]value.Value{"body": contentOf(body)})
	case ast.Raw:
		raw, err := ev.elem("raw", map[string]value.Value{"text": value.String(t.Text())})
		if err != nil {
			return nil, err
		}
		if lang, ok := t.Lang(); ok {
			if withLang, lerr := raw.With("lang", value.String(lang)); lerr == nil {
				raw = withLang
			}
		}
		return raw, nil
	case ast.Ref:
		return ev.elem("ref", map[string]value.Value{"target": value.String(t.Target())})
	case ast.Equation:
		var sb strings.Builder
		for _, cur := range t.Body() {
			sb.WriteString(cur.Text())
		}
		body, err := ev.elem("text", map[string]value.Value{"body": value.String(sb.String())})
		if err != nil {
			return nil, err
		}
		return ev.elem("equation", map[string]value.Value{"body": body, "block": value.Bool(false)})
	case ast.CodeBlock:
		v, err := ev.evalCodeBlockExpr(scope, t)
		if err != nil {
			return nil, err
		}
		return ev.coerceToContent(v)
	case ast.ContentBlock:
		v, err := ev.EvalMarkup(scope, t.Body())
		if err != nil {
			return nil, err
		}
		return ev.coerceToContent(v)
	default:
		switch n.Kind() {
		case syntax.KindText, syntax.KindLeftBracket, syntax.KindRightBracket:
			// Brackets outside a content block are ordinary characters.
			return ev.elem("text", map[string]value.Value{"body": value.String(n.Cursor().Text())})
		case syntax.KindSpace:
			return ev.elem("space", nil)
		case syntax.KindLinebreak:
			return ev.elem("linebreak", nil)
		case syntax.KindParbreak:
			return ev.elem("parbreak", nil)
		default:
			return nil, fmt.Errorf("%w", diag.New(diag.KindParseError, ev.span(n), fmt.Sprintf("cannot compile markup node of kind %v", n.Kind())))
		}
	}
}

// hoistTrailingLabel strips a trailing `<name>` (past any trailing
// spaces) off a heading's body items so the label attaches to the
// heading element itself: `= Intro <i>` labels the heading, not the
// last word inside it.
func hoistTrailingLabel(items []ast.Node) ([]ast.Node, string) {
	end := len(items)
	for end > 0 && items[end-1].Kind() == syntax.KindSpace {
		end--
	}
	if end > 0 {
		if lbl, ok := items[end-1].(ast.Label); ok {
			return items[:end-1], lbl.Name()
		}
	}
	return items, ""
}

// splitTermBody separates a term-list item's heading term from its
// description body. The grammar does not lex a dedicated separator
// between them, so the first text item is taken as the term and the
// remainder as the body — close enough to `/ term: body` for a
// reparse-friendly grammar that treats ':' as ordinary text.
func splitTermBody(items []ast.Node) (string, []ast.Node) {
	if len(items) == 0 {
		return "", nil
	}
	if items[0].Kind() == syntax.KindText {
		return strings.TrimSuffix(strings.TrimSpace(items[0].Cursor().Text()), ":"), items[1:]
	}
	return "", items
}

func listItemKind(k syntax.Kind) string {
	switch k {
	case syntax.KindEnumItem:
		return "enum.item"
	case syntax.KindTermItem:
		return "terms.item"
	default:
		return "list.item"
	}
}

// contentOf joins a run of already-evaluated markup children into a
// single content value, the Inherent "body" field value every markup
// wrapper element carries.
func contentOf(parts []*content.Content) *content.Content {
	if len(parts) == 0 {
		return content.Empty()
	}
	return content.Sequence(parts...)
}

// coerceToContent absorbs a code-mode value produced inside markup
// (a `#`-entry or bracketed content block) back into the content
// tree: content splices directly, none/auto vanish, everything else
// is rendered to its text representation (spec.md §4.4 "interpolation").
func (ev *Evaluator) coerceToContent(v value.Value) (*content.Content, error) {
	switch t := v.(type) {
	case *content.Content:
		return t, nil
	case *content.Styled:
		return t.Body, nil
	case value.None:
		return nil, nil
	case value.Auto:
		return nil, nil
	default:
		return ev.elem("text", map[string]value.Value{"body": value.String(t.Repr())})
	}
}
