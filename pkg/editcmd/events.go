package editcmd

type (
	// Sent to update the total save count.
	EventSetSaveTotal int

	// Sent when editing a save has started.
	EventEditingSave string

	// Sent when a save has been edited, or when editing it failed.
	EventEditedSave struct {
		Err  error
		Save string
	}

	// Sent when all work has completed.
	EventDone struct {
		Err error
	}
)
