package granola_test

import (
	"reflect"
	"testing"

	"github.com/zoobzio/granola"
)

// cents is a domain type with its own wire form, registered through a
// module the way a real extension would from init.
type cents struct {
	Units int64
}

type centsModule struct{}

func (centsModule) Name() string { return "cents" }

func (centsModule) Install(o *granola.Options) {
	o.Encoder(reflect.TypeOf(cents{}), func(v any) (any, error) {
		return v.(cents).Units, nil
	})
}

func TestRegisterModule_AppliedAtConstruction(t *testing.T) {
	granola.RegisterModule(centsModule{})

	type price struct {
		Amount cents `json:"amount"`
	}

	m := granola.New()
	data, err := m.Marshal(price{Amount: cents{Units: 1250}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	obj := wireObject(t, data)
	if obj["amount"] != float64(1250) {
		t.Errorf("amount = %v, want the module's wire form 1250", obj["amount"])
	}
}
