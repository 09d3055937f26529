package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/etsvibes/ets-vibes/pkg/compression"
	"github.com/etsvibes/ets-vibes/pkg/sii"
)

const (
	PropertyMoney     = "money_account"
	PropertyXP        = "experience_points"
	PropertyInfoMoney = "info_money_account"
)

var (
	ErrNotLoaded = errors.New("document not loaded")
	ErrLoad      = errors.New("load save")
	ErrSave      = errors.New("save")
)

// Save is the storage an [Editor] reads and writes.
// See [github.com/etsvibes/ets-vibes/pkg/profile.SaveFile].
type Save interface {
	ReadGameSII() ([]byte, error)
	WriteGameSII(data []byte) error
	ReadInfoSII() ([]byte, error)
	WriteInfoSII(data []byte) error
}

// Options describes the edits to apply. Nil fields are left alone.
type Options struct {
	Money *int64
	XP    *int64
	// Arbitrary properties by SII name.
	Properties map[string]string
}

// Empty reports whether opts requests no edits.
func (o Options) Empty() bool {
	return o.Money == nil && o.XP == nil && len(o.Properties) == 0
}

// Change is the outcome of editing one property.
type Change struct {
	Property string
	Old      string
	New      string
	// False when the property was not found in the document.
	Modified bool
}

type Result struct {
	Changes []Change
}

// Modified reports whether any property changed.
func (r Result) Modified() bool {
	for _, c := range r.Changes {
		if c.Modified {
			return true
		}
	}

	return false
}

// Editor edits a single [Save]. Create instances with [New].
type Editor struct {
	save      Save
	codec     *compression.Codec
	doc       *sii.Document
	encrypted bool
}

type EditorOpts func(*Editor)

func WithCodec(c *compression.Codec) EditorOpts {
	return func(e *Editor) {
		e.codec = c
	}
}

func New(save Save, opts ...EditorOpts) *Editor {
	e := &Editor{
		save:  save,
		codec: compression.NewCodec(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Load reads and decodes game.sii.
func (e *Editor) Load() error {
	data, err := e.save.ReadGameSII()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	content, err := e.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	e.encrypted = compression.Detect(data) == compression.FormatEncrypted
	e.doc = sii.NewDocument(content)

	return nil
}

// Document returns the loaded document.
func (e *Editor) Document() (*sii.Document, error) {
	if e.doc == nil {
		return nil, ErrNotLoaded
	}

	return e.doc, nil
}

// WasEncrypted reports whether the loaded game.sii was an ScsC container.
func (e *Editor) WasEncrypted() bool {
	return e.encrypted
}

// Apply edits the loaded document. Money and XP are applied first, then
// Properties in name order.
func (e *Editor) Apply(opts Options) (Result, error) {
	doc, err := e.Document()
	if err != nil {
		return Result{}, err
	}

	result := Result{}

	set := func(name, value string) {
		old, _ := doc.Get(name)
		c := Change{
			Property: name,
			Old:      old,
			New:      value,
			Modified: doc.Set(name, value),
		}
		if !c.Modified {
			slog.Warn("property not found", slog.String("property", name))
		}

		result.Changes = append(result.Changes, c)
	}

	if opts.Money != nil {
		set(PropertyMoney, strconv.FormatInt(*opts.Money, 10))
	}

	if opts.XP != nil {
		set(PropertyXP, strconv.FormatInt(*opts.XP, 10))
	}

	for _, name := range slices.Sorted(maps.Keys(opts.Properties)) {
		set(name, opts.Properties[name])
	}

	return result, nil
}

// Save writes the document as plain text, which the game accepts.
func (e *Editor) Save() error {
	doc, err := e.Document()
	if err != nil {
		return err
	}

	if err := e.save.WriteGameSII([]byte(doc.Content())); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	return nil
}

// SaveEncrypted writes the document in its original container: ScsC when it
// was loaded from one, plain text otherwise.
func (e *Editor) SaveEncrypted() error {
	doc, err := e.Document()
	if err != nil {
		return err
	}

	data := []byte(doc.Content())
	if e.encrypted {
		data, err = e.codec.Encode(doc.Content())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	}

	if err := e.save.WriteGameSII(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	return nil
}

// UpdateInfo sets the money shown in the save summary (info.sii). A save
// without info.sii is left alone.
func (e *Editor) UpdateInfo(money int64) error {
	data, err := e.save.ReadInfoSII()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	content, err := e.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: info.sii: %w", ErrLoad, err)
	}

	doc := sii.NewDocument(content)
	if !doc.SetInt(PropertyInfoMoney, money) {
		return nil
	}

	if err := e.save.WriteInfoSII([]byte(doc.Content())); err != nil {
		return fmt.Errorf("%w: info.sii: %w", ErrSave, err)
	}

	return nil
}
