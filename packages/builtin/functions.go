package builtin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix marks placeholder keys served by this package.
const Prefix = "fn."

type Func func(args []string) (string, error)

type Registry struct {
	funcs map[string]Func
	now   func() time.Time
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		now:   time.Now,
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = func(_ []string) (string, error) {
		return r.now().UTC().Format(time.RFC3339), nil
	}
	r.funcs["timestamp"] = func(_ []string) (string, error) {
		return strconv.FormatInt(r.now().Unix(), 10), nil
	}
	r.funcs["timestampMs"] = func(_ []string) (string, error) {
		return strconv.FormatInt(r.now().UnixMilli(), 10), nil
	}
	r.funcs["date"] = func(_ []string) (string, error) {
		return r.now().UTC().Format("2006-01-02"), nil
	}
	r.funcs["uuid"] = funcUUID
	r.funcs["randomInt"] = funcRandomInt
	r.funcs["randomString"] = funcRandomString
	r.funcs["randomEmail"] = funcRandomEmail
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Call evaluates an expression of the form name[.arg...].
func (r *Registry) Call(expr string) (string, error) {
	name, rest, _ := strings.Cut(expr, ".")
	fn, ok := r.funcs[name]
	if !ok {
		return "", fmt.Errorf("unknown function %q", name)
	}

	var args []string
	if rest != "" {
		args = strings.Split(rest, ".")
	}
	return fn(args)
}

// Source resolves fn.* placeholder keys.
type Source struct {
	registry *Registry
}

func NewSource() *Source {
	return &Source{registry: NewRegistry()}
}

func (s *Source) Pick(_ context.Context, key string) (string, bool) {
	expr, ok := strings.CutPrefix(key, Prefix)
	if !ok {
		return "", false
	}
	v, err := s.registry.Call(expr)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *Source) Name() string { return "builtin" }

func funcUUID(_ []string) (string, error) {
	return uuid.New().String(), nil
}

func funcRandomInt(args []string) (string, error) {
	lo, hi := 0, 100
	if len(args) >= 2 {
		var err error
		if lo, err = strconv.Atoi(args[0]); err != nil {
			return "", fmt.Errorf("randomInt min argument %q is not a valid integer", args[0])
		}
		if hi, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("randomInt max argument %q is not a valid integer", args[1])
		}
	}
	if hi < lo {
		return "", fmt.Errorf("randomInt range [%d, %d] is empty", lo, hi)
	}
	return strconv.Itoa(rand.IntN(hi-lo+1) + lo), nil
}

func funcRandomString(args []string) (string, error) {
	length := 16
	if len(args) >= 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return "", fmt.Errorf("randomString length argument %q is not a valid length", args[0])
		}
		length = v
	}
	return randomString(length, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"), nil
}

func funcRandomEmail(_ []string) (string, error) {
	user := randomString(8, "abcdefghijklmnopqrstuvwxyz")
	domain := randomString(6, "abcdefghijklmnopqrstuvwxyz")
	return fmt.Sprintf("%s@%s.com", user, domain), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = charset[rand.IntN(len(charset))]
	}
	return string(result)
}
