package xslt

// ============================================================================
// BUILT-IN TEMPLATES
// ============================================================================
//
// Grounded on other_examples/9b6c24cd_midbel-codecs__xslt-stylesheet.go.go's
// textOnlyCopy/deepCopy/shallowCopy/deepSkip/shallowSkip Executer structs:
// each is re-expressed here as a case of runBuiltIn dispatching on this
// package's NoMatchMode (consts.go), which adds ElementOrRoot (the
// reference's recursive default fallthrough for element/document nodes),
// TextOrAttribute, Fail, and Empty to four of the reference's five kinds;
// there is no deep-skip kind.

// runBuiltIn executes the configured fallback behavior for a node with
// no matching user template rule (spec.md section 4.3/GLOSSARY "Built-in
// template").
func runBuiltIn(ctx *TransformContext, node *Node, mode NoMatchMode, modeName QName, out Sink, exec func(ctx *TransformContext, body Instruction, out Sink) error) error {
	switch mode {
	case NoMatchElementOrRoot:
		return builtInRecurse(ctx, node, modeName, out)
	case NoMatchTextOrAttribute:
		switch node.Kind {
		case TextNode:
			return out.Characters(node.Data)
		case AttributeNode:
			return out.Characters(node.Data)
		default:
			return builtInRecurse(ctx, node, modeName, out)
		}
	case NoMatchTextOnlyCopy:
		switch node.Kind {
		case ElementNode, RootNode:
			return builtInRecurse(ctx, node, modeName, out)
		case TextNode:
			return out.Characters(node.Data)
		default:
			return nil
		}
	case NoMatchShallowCopy:
		return builtInShallowCopy(ctx, node, modeName, out)
	case NoMatchDeepCopy:
		return copyDeep(out, node, true)
	case NoMatchShallowSkip:
		return builtInRecurse(ctx, node, modeName, out)
	case NoMatchFail:
		return NewError(XTDE0555, "%s: no template matches and mode requires a match", node.QualifiedName())
	case NoMatchEmpty:
		return nil
	default:
		return nil
	}
}

// builtInRecurse applies templates to every child of node in the same
// mode — the built-in behavior for elements and the document root.
func builtInRecurse(ctx *TransformContext, node *Node, mode QName, out Sink) error {
	children := node.Children()
	for i, c := range children {
		itemCtx := ctx.WithContextNode(c).WithXSLTCurrentNode(c).WithPositionAndSize(i+1, len(children))
		if i > 0 {
			if err := out.ItemBoundary(); err != nil {
				return err
			}
		}
		if err := dispatchItem(itemCtx, FromNode(c), mode, nil, defaultExec, out); err != nil {
			return err
		}
	}
	return nil
}

// builtInShallowCopy copies node itself (without type/attributes beyond
// the element's own) and recurses into children via template matching —
// mirroring the reference's shallowCopy.Execute, which always re-enters
// ApplyTemplate for both the document and element cases rather than
// special-casing non-element nodes into a bulk copy. The document root
// carries no events of its own to copy, so it recurses exactly like
// NoMatchElementOrRoot's builtInRecurse, letting every descendant — not
// just the root's immediate children — reach the matcher in turn. Only
// the genuinely atomic leaf kinds (text, comment, PI, attribute,
// namespace) have no children to dispatch into and fall back to
// copyDeep.
func builtInShallowCopy(ctx *TransformContext, node *Node, mode QName, out Sink) error {
	if node.Kind == RootNode {
		return builtInRecurse(ctx, node, mode, out)
	}
	if node.Kind != ElementNode {
		return copyDeep(out, node, true)
	}
	qname := node.QualifiedName()
	if err := out.StartElement(node.Space, node.Local, qname); err != nil {
		return err
	}
	for _, ns := range node.NSDecl {
		if err := out.Namespace(ns.Local, ns.Data); err != nil {
			return err
		}
	}
	for _, a := range node.Attr {
		if err := out.Attribute(a.Space, a.Local, a.QualifiedName(), a.Data); err != nil {
			return err
		}
	}
	if err := builtInRecurse(ctx, node, mode, out); err != nil {
		return err
	}
	return out.EndElement(node.Space, node.Local, qname)
}
