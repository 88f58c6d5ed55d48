package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// Frame evaluates probes against the story iframe's document via chromedp.
// Each probe is a fixed script keyed by operation; selectors and arguments
// are passed as JSON literals, never spliced into script bodies as raw text.
type Frame struct {
	iframeSelector string
	logger         arbor.ILogger
}

// NewFrame creates a frame evaluator targeting the iframe matched by the
// given selector in the outer page.
func NewFrame(iframeSelector string, logger arbor.ILogger) *Frame {
	return &Frame{
		iframeSelector: iframeSelector,
		logger:         logger,
	}
}

// EvaluateInFrame runs the probe for op against the first element matching
// selector inside the story iframe and decodes the result into out. A
// missing iframe document or element yields the probe's empty result.
func (f *Frame) EvaluateInFrame(ctx context.Context, op interfaces.Operation, selector string, args []string, out interface{}) error {
	body, err := probeBody(op)
	if err != nil {
		return err
	}

	script := fmt.Sprintf(`(() => {
		const sel = %s;
		const args = %s;
		const frame = document.querySelector(%s);
		const doc = frame && frame.contentDocument;
		%s
	})()`, jsString(selector), jsStrings(args), jsString(f.iframeSelector), body)

	if err := chromedp.Run(ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("frame probe %s failed for %q: %w", op, selector, err)
	}
	return nil
}

// CountMatches returns the number of elements matching selector inside the
// story iframe.
func (f *Frame) CountMatches(ctx context.Context, selector string) (int, error) {
	var count int
	if err := f.EvaluateInFrame(ctx, interfaces.OpCountMatches, selector, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// FirstMatching returns the first candidate selector that matches at least
// one element inside the story iframe.
func (f *Frame) FirstMatching(ctx context.Context, candidates ...string) (string, error) {
	return FirstMatching(ctx, f, candidates...)
}

// FirstMatching tries candidate selectors in order and returns the first
// that matches at least one element. Component roots render under different
// wrappers across Storybook versions, so locators carry an ordered candidate
// list instead of a single selector.
func FirstMatching(ctx context.Context, frame interfaces.FrameEvaluator, candidates ...string) (string, error) {
	for _, candidate := range candidates {
		var count int
		if err := frame.EvaluateInFrame(ctx, interfaces.OpCountMatches, candidate, nil, &count); err != nil {
			return "", err
		}
		if count > 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no candidate selector matched: %v", candidates)
}

// BoundingBox returns the element's geometry in outer-page coordinates.
func (f *Frame) BoundingBox(ctx context.Context, selector string) (interfaces.BoundingBox, error) {
	var box interfaces.BoundingBox
	if err := f.EvaluateInFrame(ctx, interfaces.OpGetBoundingBox, selector, nil, &box); err != nil {
		return interfaces.BoundingBox{}, err
	}
	return box, nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsStrings(args []string) string {
	if args == nil {
		args = []string{}
	}
	b, _ := json.Marshal(args)
	return string(b)
}

// probeBody returns the script body for an operation. Bodies run with three
// bindings in scope: sel (the element selector), args (string arguments)
// and doc (the iframe document, possibly null). Every body returns its empty
// result when doc or the element is missing.
func probeBody(op interfaces.Operation) (string, error) {
	switch op {
	case interfaces.OpGetComputed:
		return `
		if (!doc) return "";
		const el = doc.querySelector(sel);
		if (!el) return "";
		const cs = doc.defaultView.getComputedStyle(el);
		const v = cs.getPropertyValue(args[0]);
		if (v !== "") return v;
		const camel = args[0].replace(/-([a-z])/g, (_, c) => c.toUpperCase());
		return cs[camel] !== undefined ? String(cs[camel]) : "";`, nil

	case interfaces.OpGetDeclared:
		return `
		if (!doc) return "";
		const el = doc.querySelector(sel);
		if (!el) return "";
		let value = "";
		const walk = (rules) => {
			for (const rule of rules) {
				if (rule.selectorText && rule.style) {
					try {
						if (el.matches(rule.selectorText)) {
							const v = rule.style.getPropertyValue(args[0]);
							if (v) value = v.trim();
						}
					} catch (e) {}
				} else if (rule.cssRules) {
					walk(rule.cssRules);
				}
			}
		};
		for (const sheet of doc.styleSheets) {
			let rules;
			try { rules = sheet.cssRules; } catch (e) { continue; }
			if (rules) walk(rules);
		}
		const inline = el.style.getPropertyValue(args[0]);
		if (inline) value = inline.trim();
		return value;`, nil

	case interfaces.OpGetAllComputed:
		return `
		if (!doc) return {};
		const el = doc.querySelector(sel);
		if (!el) return {};
		const cs = doc.defaultView.getComputedStyle(el);
		const result = {};
		for (let i = 0; i < cs.length; i++) {
			const prop = cs[i];
			result[prop] = cs.getPropertyValue(prop);
		}
		return result;`, nil

	case interfaces.OpGetBoundingBox:
		return `
		const empty = {x: 0, y: 0, width: 0, height: 0};
		if (!doc || !frame) return empty;
		const el = doc.querySelector(sel);
		if (!el) return empty;
		const rect = el.getBoundingClientRect();
		const offset = frame.getBoundingClientRect();
		return {
			x: offset.x + rect.x,
			y: offset.y + rect.y,
			width: rect.width,
			height: rect.height,
		};`, nil

	case interfaces.OpGetRootVariables:
		return `
		if (!doc) return {};
		const vars = {};
		const isRootSelector = (text) =>
			text.split(",").some((s) => { s = s.trim(); return s === ":root" || s === "html"; });
		const walk = (rules) => {
			for (const rule of rules) {
				if (rule.selectorText && rule.style) {
					if (!isRootSelector(rule.selectorText)) continue;
					for (let i = 0; i < rule.style.length; i++) {
						const prop = rule.style[i];
						if (prop.startsWith("--")) vars[prop] = rule.style.getPropertyValue(prop).trim();
					}
				} else if (rule.cssRules) {
					walk(rule.cssRules);
				}
			}
		};
		for (const sheet of doc.styleSheets) {
			let rules;
			try { rules = sheet.cssRules; } catch (e) { continue; }
			if (rules) walk(rules);
		}
		const cs = doc.defaultView.getComputedStyle(doc.documentElement);
		for (let i = 0; i < cs.length; i++) {
			const prop = cs[i];
			if (prop.startsWith("--") && !(prop in vars)) vars[prop] = cs.getPropertyValue(prop).trim();
		}
		return vars;`, nil

	case interfaces.OpGetRootVariable:
		return `
		if (!doc) return "";
		const cs = doc.defaultView.getComputedStyle(doc.documentElement);
		return cs.getPropertyValue(args[0]).trim();`, nil

	case interfaces.OpResolveVariable:
		return `
		const empty = {actual: "", resolved: "", rawVar: ""};
		if (!doc) return empty;
		const el = doc.querySelector(sel);
		if (!el) return empty;
		const prop = args[0], name = args[1];
		const cs = doc.defaultView.getComputedStyle(el);
		const actual = cs.getPropertyValue(prop).trim();
		const rootCS = doc.defaultView.getComputedStyle(doc.documentElement);
		let raw = rootCS.getPropertyValue(name).trim();
		if (!raw) raw = cs.getPropertyValue(name).trim();
		const probe = doc.createElement("div");
		probe.style.position = "absolute";
		probe.style.visibility = "hidden";
		probe.style.setProperty(prop, "var(" + name + ")");
		doc.body.appendChild(probe);
		const resolved = doc.defaultView.getComputedStyle(probe).getPropertyValue(prop).trim();
		probe.remove();
		return {actual: actual, resolved: resolved, rawVar: raw};`, nil

	case interfaces.OpGetText:
		return `
		if (!doc) return "";
		const el = doc.querySelector(sel);
		return el ? el.textContent : "";`, nil

	case interfaces.OpGetInnerText:
		return `
		if (!doc) return "";
		const el = doc.querySelector(sel);
		return el ? el.innerText : "";`, nil

	case interfaces.OpSetText:
		return `
		if (!doc) return false;
		const el = doc.querySelector(sel);
		if (!el) return false;
		el.textContent = args[0];
		return true;`, nil

	case interfaces.OpSetHTML:
		return `
		if (!doc) return false;
		const el = doc.querySelector(sel);
		if (!el) return false;
		el.innerHTML = args[0];
		return true;`, nil

	case interfaces.OpGetAttribute:
		return `
		if (!doc) return null;
		const el = doc.querySelector(sel);
		return el ? el.getAttribute(args[0]) : null;`, nil

	case interfaces.OpCountMatches:
		return `
		if (!doc) return 0;
		return doc.querySelectorAll(sel).length;`, nil

	case interfaces.OpGetOuterHTML:
		return `
		if (!doc) return "";
		const el = doc.querySelector(sel);
		return el ? el.outerHTML : "";`, nil
	}
	return "", fmt.Errorf("unsupported frame operation: %s", op)
}
