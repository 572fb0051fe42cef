package validator

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share_file"
)

const (
	maxNameLen        = 256
	maxDescriptionLen = 4096
	minPasswordLen    = 1
	maxPasswordLen    = 72 // bcrypt safe
)

func ValidatePage(page string) (int, error) {
	p := 1
	if page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			return p, errors.New("invalid page")
		}
		return p, nil
	}

	return p, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ParseOffset reads a byte offset query value; absent means zero.
func ParseOffset(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	off, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("offset must be a non-negative integer")
	}
	return off, nil
}

// ParseLength reads a byte length query value; absent means read to
// the end, reported as -1.
func ParseLength(s string) (int64, error) {
	if s == "" {
		return -1, nil
	}
	l, err := strconv.ParseInt(s, 10, 64)
	if err != nil || l < 0 {
		return 0, errors.New("length must be a non-negative integer")
	}
	return l, nil
}

func ValidateCreateShare(r share.CreateRequest) map[string]string {
	errs := make(map[string]string)

	if utf8.RuneCountInString(r.Name) > maxNameLen {
		errs["name"] = "name too long"
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		errs["description"] = "description too long"
	}
	if r.ValiditySeconds < 0 {
		errs["validity_seconds"] = "validity_seconds must not be negative"
	}
	if r.MaxViews < 0 {
		errs["max_views"] = "max_views must not be negative"
	}
	if r.Password != "" {
		if l := utf8.RuneCountInString(r.Password); l < minPasswordLen || l > maxPasswordLen {
			errs["password"] = "password length must be 1-72 characters"
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateNewFile(r share_file.NewFileRequest) map[string]string {
	errs := make(map[string]string)

	if r.FileName == "" {
		errs["file_name"] = "file_name is required"
	} else if utf8.RuneCountInString(r.FileName) > maxNameLen {
		errs["file_name"] = "file_name too long"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}
