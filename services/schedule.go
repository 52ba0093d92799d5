package services

import "time"

// Working hours for scheduled services, inclusive on both ends
const (
	WorkdayStart = "07:00"
	WorkdayEnd   = "18:00"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseSlot combines a YYYY-MM-DD date and an HH:MM time into a single
// timestamp in the server's local zone
func ParseSlot(date, timeOfDay string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+timeOfDay, time.Local)
}

// WithinWorkingHours reports whether an HH:MM time falls inside the
// business's working hours
func WithinWorkingHours(timeOfDay string) bool {
	t, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()

	start, _ := time.Parse(timeLayout, WorkdayStart)
	end, _ := time.Parse(timeLayout, WorkdayEnd)

	return minutes >= start.Hour()*60+start.Minute() && minutes <= end.Hour()*60+end.Minute()
}

// SlotInFuture reports whether the (date, time) slot is strictly after now
func SlotInFuture(date, timeOfDay string) bool {
	slot, err := ParseSlot(date, timeOfDay)
	if err != nil {
		return false
	}
	return slot.After(time.Now())
}
