package core

import "math"

// StatusCount pairs a status with its contact count, in pipeline order.
type StatusCount struct {
	Status ContactStatus `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
}

// AnalyticsSummary is derived on demand from a user's contacts and
// activities; it is never persisted.
type AnalyticsSummary struct {
	TotalContacts int           `json:"totalContacts"`
	TotalLists    int           `json:"totalLists"`
	StatusCounts  []StatusCount `json:"statusCounts"`
	MessagesSent  int           `json:"messagesSent"`
	Replies       int           `json:"replies"`

	// ResponseRate is the share of contacted contacts that progressed to
	// replied or beyond, in percent.
	ResponseRate float64 `json:"responseRate"`

	// ConversionRate is the share of contacted contacts that reached
	// qualified, in percent.
	ConversionRate float64 `json:"conversionRate"`
}

// respondedStatuses are the stages that count as a response.
var respondedStatuses = map[ContactStatus]bool{
	StatusReplied:          true,
	StatusMeetingScheduled: true,
	StatusMeetingCompleted: true,
	StatusQualified:        true,
}

// Summarize computes the analytics summary for one user. Rates are rounded
// to one decimal place and are zero when no contact has been contacted yet.
func Summarize(lists []ContactList, contacts []Contact, activities []Activity) AnalyticsSummary {
	counts := make(map[ContactStatus]int, len(allStatuses))
	contacted := 0
	responded := 0
	qualified := 0

	for _, c := range contacts {
		counts[c.Status]++
		if c.Status != StatusNotContacted {
			contacted++
		}
		if respondedStatuses[c.Status] {
			responded++
		}
		if c.Status == StatusQualified {
			qualified++
		}
	}

	statusCounts := make([]StatusCount, 0, len(allStatuses))
	for _, s := range allStatuses {
		statusCounts = append(statusCounts, StatusCount{
			Status: s,
			Label:  s.Label(),
			Count:  counts[s],
		})
	}

	summary := AnalyticsSummary{
		TotalContacts: len(contacts),
		TotalLists:    len(lists),
		StatusCounts:  statusCounts,
	}

	for _, a := range activities {
		switch a.Type {
		case ActivityMessageSent:
			summary.MessagesSent++
		case ActivityReplyReceived:
			summary.Replies++
		}
	}

	if contacted > 0 {
		summary.ResponseRate = round1(float64(responded) / float64(contacted) * 100)
		summary.ConversionRate = round1(float64(qualified) / float64(contacted) * 100)
	}

	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
