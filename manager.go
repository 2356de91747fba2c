package typejson

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/MichaelAJay/go-logger"
	"github.com/go-playground/validator/v10"

	"github.com/MichaelAJay/go-typejson/codec"
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/engine"
	"github.com/MichaelAJay/go-typejson/internal/jsontree"
	"github.com/MichaelAJay/go-typejson/internal/providers/memory"
	"github.com/MichaelAJay/go-typejson/internal/structs"
	"github.com/MichaelAJay/go-typejson/middleware"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// Manager holds a class registry, a codec registry and the type index the
// encoder and decoder share. Managers are safe for concurrent use.
type Manager struct {
	logger    logger.Logger
	classes   interfaces.ClassRegistry
	codecs    interfaces.CodecRegistry
	index     *engine.TypeIndex
	validator *structs.Validator
	encoder   *engine.Encoder
	decoder   *engine.Decoder
}

// NewManager creates a manager. Without options it uses an in-memory class
// registry, the process-wide codec registry and a logger from
// logger.DefaultConfig.
func NewManager(options ...Option) (*Manager, error) {
	opts := &Options{}
	for _, opt := range options {
		opt(opts)
	}

	log := opts.Logger
	if log == nil {
		log = logger.New(logger.DefaultConfig)
	}

	classes := opts.ClassRegistry
	if classes == nil {
		provider := opts.RegistryProvider
		if provider == nil {
			provider = memory.NewProvider()
		}
		var err error
		if classes, err = provider.Create(log); err != nil {
			return nil, fmt.Errorf("failed to create class registry: %w", err)
		}
	} else {
		classes.SetLogger(log)
		if err := classes.Setup(); err != nil {
			return nil, fmt.Errorf("failed to set up class registry: %w", err)
		}
	}
	classes = middleware.Chain(classes, opts.Middleware...)

	codecs := opts.Codecs
	if codecs == nil {
		codecs = codec.Default
	}

	index := engine.NewTypeIndex()
	for _, t := range codecs.Types() {
		index.Add(t)
	}

	v := structs.NewValidatorFrom(opts.Validator)
	enc, dec := engine.New(engine.Config{
		Codecs:          codecs,
		Classes:         classes,
		Index:           index,
		Validator:       v,
		Logger:          log,
		StrictFields:    opts.StrictFields,
		EncoderFallback: opts.EncoderFallback,
		DecoderFallback: opts.DecoderFallback,
	})

	log.Debug("Type JSON manager created",
		logger.Field{Key: "codecs", Value: len(codecs.Types())},
		logger.Field{Key: "classes", Value: classes.Len()})

	return &Manager{
		logger:    log,
		classes:   classes,
		codecs:    codecs,
		index:     index,
		validator: v,
		encoder:   enc,
		decoder:   dec,
	}, nil
}

// ClassRegistry returns the manager's class registry, middleware included.
func (m *Manager) ClassRegistry() interfaces.ClassRegistry {
	return m.classes
}

// Codecs returns the codec registry the manager encodes with.
func (m *Manager) Codecs() interfaces.CodecRegistry {
	return m.codecs
}

// Logger returns the manager's logger.
func (m *Manager) Logger() logger.Logger {
	return m.logger
}

// RegisterValidation adds a custom `validate` tag checked when decoded
// structs are rebuilt.
func (m *Manager) RegisterValidation(tag string, fn validator.Func) error {
	if err := m.validator.Engine().RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("failed to register validation %q: %w", tag, err)
	}
	return nil
}

// Teardown clears the class registry and forgets every indexed type.
func (m *Manager) Teardown() {
	m.classes.Teardown()
	m.index.Reset()
	for _, t := range m.codecs.Types() {
		m.index.Add(t)
	}
}

// Declare indexes the types of samples, and the named types reachable
// through their fields, so documents naming them decode without a class
// registry entry. A sample may be a reflect.Type.
func (m *Manager) Declare(samples ...any) {
	for _, s := range samples {
		t, ok := s.(reflect.Type)
		if !ok {
			t = reflect.TypeOf(s)
		}
		if t != nil {
			m.index.Declare(t)
		}
	}
}

// IndexedTypes lists the qualified names the manager resolves directly.
func (m *Manager) IndexedTypes() []string {
	return m.index.Names()
}

// RegisterCodec registers enc and dec for t. Replacing an existing codec is
// logged as a warning.
func (m *Manager) RegisterCodec(t reflect.Type, enc interfaces.EncodeFunc, dec interfaces.DecodeFunc) error {
	replaced, err := m.codecs.Register(t, enc, dec)
	if err != nil {
		return err
	}
	if replaced {
		m.logger.Warn("Codec already registered, replacing", logger.Field{Key: "type", Value: t.String()})
	}
	m.index.Add(t)
	return nil
}

// UnregisterCodec removes the codec registered for t.
func (m *Manager) UnregisterCodec(t reflect.Type) bool {
	return m.codecs.Unregister(t)
}

// RegisterClass registers t with the class registry.
func (m *Manager) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	return m.classes.RegisterClass(t, opts...)
}

// RegisterClasses registers several types under their class names.
func (m *Manager) RegisterClasses(types ...reflect.Type) error {
	return m.classes.RegisterClasses(types)
}

// Encode returns the JSON tree for v with type tags attached.
func (m *Manager) Encode(v any) (any, error) {
	return m.encoder.Encode(v)
}

// Marshal encodes v to JSON text.
func (m *Manager) Marshal(v any, options ...FormatOption) ([]byte, error) {
	tree, err := m.encoder.Encode(v)
	if err != nil {
		return nil, err
	}
	return jsontree.Marshal(tree, treeFormat(options))
}

// Dumps encodes v to a JSON string.
func (m *Manager) Dumps(v any, options ...FormatOption) (string, error) {
	data, err := m.Marshal(v, options...)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Dump encodes v and writes the text to w.
func (m *Manager) Dump(v any, w io.Writer, options ...FormatOption) error {
	tree, err := m.encoder.Encode(v)
	if err != nil {
		return err
	}
	return jsontree.Write(w, tree, treeFormat(options))
}

// Unmarshal decodes JSON text, rebuilding every tagged object.
func (m *Manager) Unmarshal(data []byte) (any, error) {
	return m.decoder.Decode(data)
}

// Loads decodes a JSON string.
func (m *Manager) Loads(text string) (any, error) {
	return m.decoder.DecodeReader(strings.NewReader(text))
}

// Load decodes the JSON text read from r.
func (m *Manager) Load(r io.Reader) (any, error) {
	return m.decoder.DecodeReader(r)
}

// UnmarshalInto decodes data into the value dst points to.
func (m *Manager) UnmarshalInto(data []byte, dst any) error {
	return m.decoder.DecodeInto(data, dst)
}

// LoadsInto decodes text into the value dst points to.
func (m *Manager) LoadsInto(text string, dst any) error {
	return m.decoder.DecodeInto([]byte(text), dst)
}

// LoadInto decodes the text read from r into the value dst points to.
func (m *Manager) LoadInto(r io.Reader, dst any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	return m.decoder.DecodeInto(buf.Bytes(), dst)
}

// DecodeAs decodes data into a T using m.
func DecodeAs[T any](m *Manager, data []byte) (T, error) {
	var out T
	err := m.decoder.DecodeInto(data, &out)
	return out, err
}

func treeFormat(options []FormatOption) jsontree.Format {
	var f Format
	for _, opt := range options {
		opt(&f)
	}
	return jsontree.Format{Indent: f.Indent, EscapeHTML: f.EscapeHTML, SortKeys: f.SortKeys}
}

var (
	instance   *Manager
	instanceMu sync.Mutex
)

// GetInstance returns the process default manager, creating it with
// default options on first use.
func GetInstance() *Manager {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		m, err := NewManager()
		if err != nil {
			// the default in-memory registry cannot fail to set up
			panic(err)
		}
		instance = m
	}
	return instance
}

// Initialize creates the process default manager with options. It fails
// with ErrAlreadyInitialized when one exists.
func Initialize(options ...Option) (*Manager, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		return nil, typejsonErrors.ErrAlreadyInitialized
	}
	m, err := NewManager(options...)
	if err != nil {
		return nil, err
	}
	instance = m
	return m, nil
}

// Current returns the process default manager without creating one.
func Current() (*Manager, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		return nil, typejsonErrors.ErrNotInitialized
	}
	return instance, nil
}

// Teardown tears the process default manager down. The next GetInstance
// creates a fresh one. Calling it without a manager does nothing.
func Teardown() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		return
	}
	instance.Teardown()
	instance = nil
}

// GetClassRegistry returns the class registry of the process default
// manager.
func GetClassRegistry() interfaces.ClassRegistry {
	return GetInstance().ClassRegistry()
}
