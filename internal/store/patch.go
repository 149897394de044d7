package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// JobPatch lists the fields of a partial update. Nil fields are left untouched.
// An empty Location or Notes clears the field.
type JobPatch struct {
	Title       *string
	Employer    *string
	AppliedDate *time.Time
	Status      *string
	WorkMode    *string
	Location    *string
	Notes       *string
	Rejected    *bool
	Ghosted     *bool
}

func (p JobPatch) IsEmpty() bool {
	return len(p.columns()) == 0
}

func (p JobPatch) columns() map[string]any {
	cols := make(map[string]any)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Employer != nil {
		cols["employer"] = *p.Employer
	}
	if p.AppliedDate != nil {
		cols["applied_date"] = *p.AppliedDate
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.WorkMode != nil {
		cols["work_mode"] = *p.WorkMode
	}
	if p.Location != nil {
		cols["location"] = nullable(*p.Location)
	}
	if p.Notes != nil {
		cols["notes"] = nullable(*p.Notes)
	}
	if p.Rejected != nil {
		cols["rejected"] = *p.Rejected
	}
	if p.Ghosted != nil {
		cols["ghosted"] = *p.Ghosted
	}
	return cols
}

func (p JobPatch) mongoUpdate() bson.D {
	set := bson.D{}
	unset := bson.D{}

	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }
	if p.Title != nil {
		add("job_title", *p.Title)
	}
	if p.Employer != nil {
		add("employer", *p.Employer)
	}
	if p.AppliedDate != nil {
		add("job_date", *p.AppliedDate)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.WorkMode != nil {
		add("work_mode", *p.WorkMode)
	}
	if p.Location != nil {
		if *p.Location == "" {
			unset = append(unset, bson.E{Key: "location", Value: ""})
		} else {
			add("location", *p.Location)
		}
	}
	if p.Notes != nil {
		if *p.Notes == "" {
			unset = append(unset, bson.E{Key: "notes", Value: ""})
		} else {
			add("notes", *p.Notes)
		}
	}
	if p.Rejected != nil {
		add("rejected", *p.Rejected)
	}
	if p.Ghosted != nil {
		add("ghosted", *p.Ghosted)
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
