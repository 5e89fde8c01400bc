package model

// Decorator enriches an object after a loader has built its canonical
// structure, typically by attaching labels and ShowIf rules from overlays.
type Decorator interface {
	Decorate(*Object) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Object) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(obj *Object) error {
	return fn(obj)
}

// Decorate applies decorators in order, stopping at the first error.
func Decorate(obj *Object, decorators ...Decorator) error {
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(obj); err != nil {
			return err
		}
	}
	return nil
}
