package v1alpha1

func StringToJobStatus(s string) JobStatus {
	switch s {
	case string(JobStatusInterview):
		return JobStatusInterview
	case string(JobStatusOffer):
		return JobStatusOffer
	default:
		return JobStatusPreInterview
	}
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPreInterview, JobStatusInterview, JobStatusOffer:
		return true
	}
	return false
}

func (w WorkMode) Valid() bool {
	switch w {
	case WorkModeInPerson, WorkModeHybrid, WorkModeRemote:
		return true
	}
	return false
}

func JobStatuses() []JobStatus {
	return []JobStatus{JobStatusPreInterview, JobStatusInterview, JobStatusOffer}
}

func WorkModes() []WorkMode {
	return []WorkMode{WorkModeInPerson, WorkModeHybrid, WorkModeRemote}
}
