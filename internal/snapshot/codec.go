package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"matebuilder/internal/allocation"
	"matebuilder/internal/logging"
)

// MaxSize caps the size of a snapshot accepted by Decode.
const MaxSize = 1 << 20

// ErrMalformed is returned for any snapshot that fails to decode or validate.
var ErrMalformed = errors.New("malformed snapshot")

// requiredBuckets must be present in every snapshot; matching reads them.
var requiredBuckets = []allocation.Bucket{allocation.MustHave, allocation.DealBreaker}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Encode writes s as indented JSON with the current version.
func Encode(w io.Writer, s Snapshot) error {
	s.Version = Version
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Decode reads and validates a snapshot. Unknown fields are ignored. Any
// failure is reported as ErrMalformed.
func Decode(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return Snapshot{}, malformed("read: %v", err)
	}
	if len(data) > MaxSize {
		return Snapshot{}, malformed("larger than %d bytes", MaxSize)
	}
	return DecodeBytes(data)
}

// DecodeBytes validates an in-memory snapshot.
func DecodeBytes(data []byte) (Snapshot, error) {
	if len(data) > MaxSize {
		return Snapshot{}, malformed("larger than %d bytes", MaxSize)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Snapshot{}, malformed("expected a JSON object")
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, malformed("%v", err)
	}
	if err := Validate(s); err != nil {
		return Snapshot{}, err
	}
	if s.Version == 0 {
		logging.SnapshotWarn("decoded legacy snapshot without version")
	}
	if s.Profile.Gender == "" {
		s.Profile.Gender = s.UserProfile().Gender
	}
	return s, nil
}

// Validate checks a decoded snapshot against the wire schema.
func Validate(s Snapshot) error {
	if s.Version < 0 || s.Version > Version {
		return malformed("unsupported version %d", s.Version)
	}
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return malformed("%s", strings.Join(parts, "; "))
		}
		return malformed("%v", err)
	}
	for _, b := range requiredBuckets {
		if _, ok := s.Traits[string(b)]; !ok {
			return malformed("traits.%s is missing", b)
		}
	}
	seen := make(map[string]string)
	for bucket, records := range s.Traits {
		for _, r := range records {
			if prev, dup := seen[r.ID]; dup {
				return malformed("token %s appears in %s and %s", r.ID, prev, bucket)
			}
			seen[r.ID] = bucket
		}
	}
	return nil
}

// WriteFile encodes s to path, creating parent directories. The file is
// replaced atomically.
func WriteFile(path string, s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	// Write then rename so a watching reader never sees a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	_, err = tmp.Write(buf.Bytes())
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	logging.Snapshot("snapshot written to %s (%d bytes)", path, buf.Len())
	return nil
}

// ReadFile opens and decodes the snapshot at path. I/O errors are returned
// as-is; content problems wrap ErrMalformed.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
