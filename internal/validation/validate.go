// Package validation holds the field rules for projects and progress reports.
// Every function returns all violated rules in a fixed order so callers can
// show a complete list at once.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"progresstracker/internal/model"
)

const (
	MaxWorkHours     = 24
	FutureReportDays = 7
)

const (
	MsgProjectCodeRequired = "project code is required"
	MsgNameRequired        = "project name is required"
	MsgInvalidStartDate    = "invalid start date format"
	MsgInvalidEndDate      = "invalid end date format"
	MsgEndBeforeStart      = "end date cannot be earlier than start date"
	MsgInvalidStatus       = "invalid project status"

	MsgReporterRequired = "reporter is required"
	MsgDateRequired     = "report date is required"
	MsgInvalidDate      = "invalid date format"
	MsgDateTooFar       = "report date cannot be more than 7 days in the future"
	MsgWorkHoursRange   = "work hours must be between 0 and 24"
	MsgInvalidNeedHelp  = "invalid need-help value"
)

func ValidateProject(in model.ProjectInput) []string {
	var errs []string

	if strings.TrimSpace(in.ProjectCode) == "" {
		errs = append(errs, MsgProjectCodeRequired)
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, MsgNameRequired)
	}

	var start, end time.Time
	var startErr, endErr error
	if strings.TrimSpace(in.StartDate) != "" {
		if start, startErr = model.ParseDate(in.StartDate, time.Local); startErr != nil {
			errs = append(errs, MsgInvalidStartDate)
		}
	}
	if strings.TrimSpace(in.EndDate) != "" {
		if end, endErr = model.ParseDate(in.EndDate, time.Local); endErr != nil {
			errs = append(errs, MsgInvalidEndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, MsgEndBeforeStart)
	}

	if in.Status != "" && !model.ProjectStatus(in.Status).Valid() {
		errs = append(errs, MsgInvalidStatus)
	}

	return errs
}

// ValidateProgress checks a report against now. The date window is measured
// in calendar days of now's location: today+7 passes, today+8 fails.
func ValidateProgress(in model.ProgressInput, now time.Time) []string {
	var errs []string

	if strings.TrimSpace(in.Reporter) == "" {
		errs = append(errs, MsgReporterRequired)
	}

	if strings.TrimSpace(in.Date) == "" {
		errs = append(errs, MsgDateRequired)
	} else if date, err := model.ParseDate(in.Date, now.Location()); err != nil {
		errs = append(errs, MsgInvalidDate)
	} else if date.After(model.StartOfDay(now).AddDate(0, 0, FutureReportDays)) {
		errs = append(errs, MsgDateTooFar)
	}

	if strings.TrimSpace(in.ProjectCode) == "" {
		errs = append(errs, MsgProjectCodeRequired)
	}

	if HoursPresent(in.WorkHours) {
		if h, ok := ParseHours(in.WorkHours); !ok || h < 0 || h > MaxWorkHours {
			errs = append(errs, MsgWorkHoursRange)
		}
	}

	if in.NeedHelp != "" {
		if _, ok := NormalizeNeedHelp(in.NeedHelp); !ok {
			errs = append(errs, MsgInvalidNeedHelp)
		}
	}

	return errs
}

// HoursPresent reports whether a work-hours value was supplied. Blank strings
// count as absent so empty form fields fall back to the default.
func HoursPresent(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// ParseHours converts a decoded JSON value to a finite number.
func ParseHours(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeNeedHelp maps 是/否 and the yes/no aliases to the stored values.
func NormalizeNeedHelp(s string) (model.NeedHelp, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(model.NeedHelpYes), "yes":
		return model.NeedHelpYes, true
	case string(model.NeedHelpNo), "no":
		return model.NeedHelpNo, true
	}
	return "", false
}
