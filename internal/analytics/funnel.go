package analytics

import (
	api "github.com/applytrack/applytrack/api/v1alpha1"
)

const (
	NodeApplied   = "Applied"
	NodeRejected  = "Rejected"
	NodeInterview = "Interview"
	NodeOffer     = "Offer"
)

type FlowEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type FunnelCounts struct {
	Applied   int `json:"applied"`
	Rejected  int `json:"rejected"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
}

func CountFunnel(jobs []api.Job) FunnelCounts {
	c := FunnelCounts{Applied: len(jobs)}
	for _, j := range jobs {
		if BucketOf(j) == BucketRejected {
			c.Rejected++
		}
		switch j.Status {
		case api.JobStatusInterview:
			c.Interview++
		case api.JobStatusOffer:
			c.Offer++
		}
	}
	return c
}

// Funnel returns the Applied -> Rejected, Applied -> Interview and Interview -> Offer
// flows. Offers flow through Interview. Edges without volume are omitted.
func Funnel(jobs []api.Job) []FlowEdge {
	c := CountFunnel(jobs)

	edges := []FlowEdge{
		{Source: NodeApplied, Target: NodeRejected, Value: c.Rejected},
		{Source: NodeApplied, Target: NodeInterview, Value: c.Interview + c.Offer},
		{Source: NodeInterview, Target: NodeOffer, Value: c.Offer},
	}

	result := make([]FlowEdge, 0, len(edges))
	for _, e := range edges {
		if e.Value > 0 {
			result = append(result, e)
		}
	}
	return result
}
