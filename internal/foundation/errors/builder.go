package errors

// Context keys shared with the log output.
const (
	KeyPath     = "path"
	KeyTemplate = "template"
	KeyPageType = "page_type"
	KeyAddr     = "addr"
)

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with severity SeverityError.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WrapError starts an error of category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// WithContext records a key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// AtPath records the file or directory involved.
func (b *ErrorBuilder) AtPath(path string) *ErrorBuilder { return b.WithContext(KeyPath, path) }

// ForTemplate records the template involved.
func (b *ErrorBuilder) ForTemplate(name string) *ErrorBuilder {
	return b.WithContext(KeyTemplate, name)
}

// ForPageType records the page type being rendered.
func (b *ErrorBuilder) ForPageType(name string) *ErrorBuilder {
	return b.WithContext(KeyPageType, name)
}

// Build returns the error. The builder can keep being used; later changes do
// not affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	e.context = ErrorContext{}.Merge(b.err.context)
	return &e
}

// ConfigError starts a fatal configuration error.
func ConfigError(message string) *ErrorBuilder { return NewError(CategoryConfig, message).Fatal() }

// ValidationError starts a fatal usage error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// MetadataError starts a fatal metadata error.
func MetadataError(message string) *ErrorBuilder {
	return NewError(CategoryMetadata, message).Fatal()
}

// TemplateError starts a fatal template error.
func TemplateError(message string) *ErrorBuilder {
	return NewError(CategoryTemplate, message).Fatal()
}

// FileSystemError starts a fatal filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

// BuildError starts a fatal build error.
func BuildError(message string) *ErrorBuilder { return NewError(CategoryBuild, message).Fatal() }

// ServerError starts a fatal serve-mode error.
func ServerError(message string) *ErrorBuilder { return NewError(CategoryServer, message).Fatal() }

// InternalError starts a fatal internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
