// Copyright © 2026 The elnames authors

package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elnames/elnames/diagnostic"
	"github.com/elnames/elnames/parser"
)

func rewriteSource(t *testing.T, prefix string, options []string, src string) (string, *Engine) {
	t.Helper()
	forms, err := parser.ParseString("test.el", src)
	require.NoError(t, err)
	eng, err := New(prefix, options...)
	require.NoError(t, err)
	out, err := eng.Rewrite(forms)
	require.NoError(t, err)
	return out.String(), eng
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		src     string
		expect  string
	}{{
		name:   "defvar qualifies name and reference",
		src:    `(defvar bar 1) (defvar baz bar)`,
		expect: `(progn (defvar foo-bar 1) (defvar foo-baz foo-bar))`,
	}, {
		name:   "defun qualifies name and body references",
		src:    `(defvar bar 1) (defun get-bar () bar)`,
		expect: `(progn (defvar foo-bar 1) (defun foo-get-bar () foo-bar))`,
	}, {
		name:   "forward reference resolves",
		src:    `(defun get-bar () bar) (defvar bar 1)`,
		expect: `(progn (defun foo-get-bar () foo-bar) (defvar foo-bar 1))`,
	}, {
		name:   "calls to block functions qualify",
		src:    `(defun f () t) (defun g () (f))`,
		expect: `(progn (defun foo-f () t) (defun foo-g () (foo-f)))`,
	}, {
		name:   "external calls untouched",
		src:    `(defun f () (message "hi"))`,
		expect: `(progn (defun foo-f () (message "hi")))`,
	}, {
		name:   "protected definition name",
		src:    `(defvar ::bar 1)`,
		expect: `(progn (defvar bar 1))`,
	}, {
		name:   "protected reference beats table entry",
		src:    `(defvar bar 1) (defun f () ::bar)`,
		expect: `(progn (defvar foo-bar 1) (defun foo-f () bar))`,
	}, {
		name:   "default marker does not capture keywords",
		src:    `(defvar bar 1) (defvar x (list :bar ::bar))`,
		expect: `(progn (defvar foo-bar 1) (defvar foo-x (list :bar bar)))`,
	}, {
		name:   "protected head dispatches as plain call",
		src:    `(defvar bar 1) (defun f () t) (defun g () (::f bar))`,
		expect: `(progn (defvar foo-bar 1) (defun foo-f () t) (defun foo-g () (f foo-bar)))`,
	}, {
		name:    "custom protection marker",
		options: []string{"protection=@@"},
		src:     `(defvar bar 1) (defun f () @@bar)`,
		expect:  `(progn (defvar foo-bar 1) (defun foo-f () bar))`,
	}, {
		name:   "nil t and keywords untouched",
		src:    `(defvar bar (list nil t :key))`,
		expect: `(progn (defvar foo-bar (list nil t :key)))`,
	}, {
		name:   "argument shadows variable",
		src:    `(defvar x 1) (defun f (x) x)`,
		expect: `(progn (defvar foo-x 1) (defun foo-f (x) x))`,
	}, {
		name:   "docstring preserved",
		src:    `(defun f () "Doc." t)`,
		expect: `(progn (defun foo-f () "Doc." t))`,
	}, {
		name:   "interactive header preserved",
		src:    `(defun f (n) (interactive "p") n)`,
		expect: `(progn (defun foo-f (n) (interactive "p") n))`,
	}, {
		name:   "let binds in parallel",
		src:    `(defvar x 1) (defun f () (let ((x x) (y x)) x))`,
		expect: `(progn (defvar foo-x 1) (defun foo-f () (let ((x foo-x) (y foo-x)) x)))`,
	}, {
		name:   "let* binds sequentially",
		src:    `(defvar x 1) (defun f () (let* ((x x) (y x)) y))`,
		expect: `(progn (defvar foo-x 1) (defun foo-f () (let* ((x foo-x) (y x)) y)))`,
	}, {
		name:    "let-vars qualifies known bound names",
		options: []string{OptionLetVars},
		src:     `(defvar x 1) (defun f () (let ((x 2)) x))`,
		expect:  `(progn (defvar foo-x 1) (defun foo-f () (let ((foo-x 2)) foo-x)))`,
	}, {
		name:   "quoted symbol is opaque by default",
		src:    `(defvar bar 1) (defun f () 'bar)`,
		expect: `(progn (defvar foo-bar 1) (defun foo-f () 'bar))`,
	}, {
		name:    "assume-var-quote resolves quoted symbols",
		options: []string{OptionAssumeVarQuote},
		src:     `(defvar bar 1) (defun f () 'bar)`,
		expect:  `(progn (defvar foo-bar 1) (defun foo-f () 'foo-bar))`,
	}, {
		name:   "function-quoted symbol resolves by default",
		src:    `(defun f () t) (defvar g #'f)`,
		expect: `(progn (defun foo-f () t) (defvar foo-g #'foo-f))`,
	}, {
		name:    "no-fun-quote leaves function quotes alone",
		options: []string{OptionNoFunQuote},
		src:     `(defun f () t) (defvar g #'f)`,
		expect:  `(progn (defun foo-f () t) (defvar foo-g #'f))`,
	}, {
		name:   "quoted lambda is code",
		src:    `(defun f () t) (defvar g '(lambda () (f)))`,
		expect: `(progn (defun foo-f () t) (defvar foo-g '(lambda () (foo-f))))`,
	}, {
		name:   "backquote template is opaque",
		src:    "(defvar bar 1) (defun f () `(a ,bar))",
		expect: "(progn (defvar foo-bar 1) (defun foo-f () `(a ,bar)))",
	}, {
		name:   "lambda head recurses",
		src:    `(defvar bar 1) (defvar r ((lambda (x) x) bar))`,
		expect: `(progn (defvar foo-bar 1) (defvar foo-r ((lambda (x) x) foo-bar)))`,
	}, {
		name:   "defalias defines and references",
		src:    `(defun f () t) (defalias 'g #'f)`,
		expect: `(progn (defun foo-f () t) (defalias 'foo-g #'foo-f))`,
	}, {
		name:   "defvaralias defines and references",
		src:    `(defvar bar 1) (defvaralias 'baz 'bar)`,
		expect: `(progn (defvar foo-bar 1) (defvaralias 'foo-baz 'foo-bar))`,
	}, {
		name:   "cond rewrites tests and consequents",
		src:    `(defvar bar 1) (defun f () (cond (bar bar) (t nil)))`,
		expect: `(progn (defvar foo-bar 1) (defun foo-f () (cond (foo-bar foo-bar) (t nil))))`,
	}, {
		name: "condition-case binds handler variable",
		src:  `(defvar bar 1) (defun f () (condition-case err bar (error err)))`,
		expect: `(progn (defvar foo-bar 1) ` +
			`(defun foo-f () (condition-case err foo-bar (error err))))`,
	}, {
		name: "macro grammar classifies call arguments",
		src: `(defvar bar 1)
(defmacro twice (x) (declare (debug (form))) (list 'progn x x))
(defvar r (twice bar))`,
		expect: `(progn (defvar foo-bar 1) ` +
			`(defmacro foo-twice (x) (declare (debug (form))) (list 'progn x x)) ` +
			`(defvar foo-r (foo-twice foo-bar)))`,
	}, {
		name: "macro data positions stay opaque",
		src: `(defvar bar 1)
(defmacro bind (name val) (declare (debug (symbolp form))) (list 'setq name val))
(defvar r (bind bar bar))`,
		expect: `(progn (defvar foo-bar 1) ` +
			`(defmacro foo-bind (name val) (declare (debug (symbolp form))) (list 'setq name val)) ` +
			`(defvar foo-r (foo-bind bar foo-bar)))`,
	}, {
		name: "known host macros classify",
		src:  `(defvar xs nil) (defun f () (dolist (x xs) x))`,
		expect: `(progn (defvar foo-xs nil) ` +
			`(defun foo-f () (dolist (x foo-xs) x)))`,
	}, {
		name: "minor mode defines companions",
		src: `(define-minor-mode bar-mode "Doc." :lighter " B" (setq bar-mode-hook nil))
(defun f () bar-mode)`,
		expect: `(progn (define-minor-mode foo-bar-mode "Doc." :lighter " B" ` +
			`(setq foo-bar-mode-hook nil)) ` +
			`(defun foo-f () foo-bar-mode))`,
	}, {
		name: "derived mode qualifies block parent",
		src: `(define-derived-mode base-mode fundamental-mode "Base")
(define-derived-mode child-mode base-mode "Child" (setq child-mode-hook nil))`,
		expect: `(progn (define-derived-mode foo-base-mode fundamental-mode "Base") ` +
			`(define-derived-mode foo-child-mode foo-base-mode "Child" ` +
			`(setq foo-child-mode-hook nil)))`,
	}, {
		name:   "defcustom keywords preserved",
		src:    `(defcustom bar 1 "Doc." :type 'integer :group 'foo)`,
		expect: `(progn (defcustom foo-bar 1 "Doc." :type 'integer :group 'foo))`,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, eng := rewriteSource(t, "foo-", test.options, test.src)
			assert.Equal(t, test.expect, out)
			assert.Empty(t, eng.Diagnostics())
		})
	}
}

func TestRewriteDeterministic(t *testing.T) {
	const src = `(defvar bar 1) (defun f () bar) (defun g () (f))`
	first, eng := rewriteSource(t, "foo-", nil, src)
	forms, err := parser.ParseString("test.el", src)
	require.NoError(t, err)
	// The engine resets between invocations and must produce identical
	// output for identical input.
	again, err := eng.Rewrite(forms)
	require.NoError(t, err)
	assert.Equal(t, first, again.String())
}

func TestRewriteDoesNotModifyInput(t *testing.T) {
	forms, err := parser.ParseString("test.el", `(defvar bar 1) (defun f () bar)`)
	require.NoError(t, err)
	before := make([]string, len(forms))
	for i, form := range forms {
		before[i] = form.String()
	}
	eng, err := New("foo-")
	require.NoError(t, err)
	_, err = eng.Rewrite(forms)
	require.NoError(t, err)
	for i, form := range forms {
		assert.Equal(t, before[i], form.String())
	}
}

func TestRewriteStaleContext(t *testing.T) {
	eng, err := New("foo-")
	require.NoError(t, err)
	eng.active = true
	_, err = eng.Rewrite(nil)
	require.Error(t, err)
	stale := &StaleContextError{}
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "foo-", stale.Prefix)
}

func TestRewriteAmbiguousMacro(t *testing.T) {
	// A macro with no discoverable grammar gets its head qualified but its
	// arguments left untouched, with a warning.
	out, eng := rewriteSource(t, "foo-", nil, `
(defvar bar 1)
(defmacro opaque (x) (list 'quote x))
(defvar r (opaque bar))`)
	assert.Equal(t, `(progn (defvar foo-bar 1) `+
		`(defmacro foo-opaque (x) (list 'quote x)) `+
		`(defvar foo-r (foo-opaque bar)))`, out)
	diags := eng.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, CondAmbiguousMacroShape, diags[0].Condition)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
}

func TestRewriteMacroCallBeforeDefinition(t *testing.T) {
	// A call above its defmacro cannot see the declared grammar on this
	// run; the head still qualifies but the arguments are not classified.
	out, eng := rewriteSource(t, "foo-", nil, `
(defvar bar 1)
(defvar r (twice bar))
(defmacro twice (x) (declare (debug (form))) (list 'progn x x))`)
	assert.Equal(t, `(progn (defvar foo-bar 1) `+
		`(defvar foo-r (foo-twice bar)) `+
		`(defmacro foo-twice (x) (declare (debug (form))) (list 'progn x x)))`, out)
	diags := eng.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, CondAmbiguousMacroShape, diags[0].Condition)
}

func TestRewriteUnsupportedCompoundHead(t *testing.T) {
	out, eng := rewriteSource(t, "foo-", nil, `
(defvar bar 1)
(defvar r ((car handlers) bar))`)
	// Children are still recursed conservatively.
	assert.Equal(t, `(progn (defvar foo-bar 1) `+
		`(defvar foo-r ((car handlers) foo-bar)))`, out)
	diags := eng.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, CondUnsupportedCompoundHead, diags[0].Condition)
}

func TestRewriteExternalGlobals(t *testing.T) {
	globals := NewMapGlobals()
	globals.DefineVar("foo-ext")
	globals.DefineFun("foo-setup")

	forms, err := parser.ParseString("test.el", `(defun f () (setup ext))`)
	require.NoError(t, err)

	eng, err := New("foo-")
	require.NoError(t, err)
	eng.SetGlobals(globals)
	out, err := eng.Rewrite(forms)
	require.NoError(t, err)
	assert.Equal(t, `(progn (defun foo-f () (setup ext)))`, out.String(),
		"globals must be ignored without the external-globals option")

	eng, err = New("foo-", OptionExternalGlobals)
	require.NoError(t, err)
	eng.SetGlobals(globals)
	out, err = eng.Rewrite(forms)
	require.NoError(t, err)
	assert.Equal(t, `(progn (defun foo-f () (foo-setup foo-ext)))`, out.String())
}

func TestRewriteDeferred(t *testing.T) {
	forms, err := parser.ParseString("test.el", `
(defvar bar 1)
;;;###autoload
(defun entry () bar)
(defun helper () bar)`)
	require.NoError(t, err)
	eng, err := New("foo-")
	require.NoError(t, err)
	out, err := eng.RewriteDeferred(forms)
	require.NoError(t, err)
	// Only the marked form is emitted, and only its own definitions are
	// discovered: bar is not defined within the deferred subset.
	assert.Equal(t, `(progn (defun foo-entry () bar))`, out.String())
}

func TestRewriteEmptyBlock(t *testing.T) {
	eng, err := New("foo-")
	require.NoError(t, err)
	out, err := eng.Rewrite(nil)
	require.NoError(t, err)
	assert.Equal(t, `(progn)`, out.String())
	assert.Empty(t, eng.Diagnostics())
}

func TestNewOptionErrors(t *testing.T) {
	_, err := New("foo-", "bogus")
	require.Error(t, err)
	unknown := &UnknownOptionError{}
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bogus", unknown.Option)

	_, err = New("foo-", "protection=a b")
	require.Error(t, err)
	invalid := &InvalidProtectionValueError{}
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "a b", invalid.Value)

	_, err = New("foo-", "protection=")
	require.Error(t, err)
	require.ErrorAs(t, err, &invalid)
}
