package timemod

import (
	"testing"
	"time"

	"github.com/hpl-lang/hpl/pkg/core/value"
)

func TestTimeModule(t *testing.T) {
	m := New()

	t.Run("now returns a plausible unix timestamp", func(t *testing.T) {
		v, err := m.Functions["now"].Call(nil, nil)
		if err != nil {
			t.Fatalf("now: %v", err)
		}
		if v.IntV < time.Now().Unix()-5 {
			t.Errorf("now() = %d looks stale", v.IntV)
		}
	})

	t.Run("sleep rejects a negative duration", func(t *testing.T) {
		_, err := m.Functions["sleep"].Call(nil, []value.Value{value.NewInt(-1)})
		if err == nil {
			t.Fatalf("expected an error")
		}
	})

	t.Run("sleep accepts zero", func(t *testing.T) {
		_, err := m.Functions["sleep"].Call(nil, []value.Value{value.NewInt(0)})
		if err != nil {
			t.Errorf("sleep(0): %v", err)
		}
	})
}
