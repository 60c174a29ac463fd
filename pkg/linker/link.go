package linker

type Stage uint8

const (
	StageNone Stage = iota
	StageLoaded
	StageSelected
	StageLaidOut
	StageRelocated
	StageWritten
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageLoaded:
		return "loaded"
	case StageSelected:
		return "selected"
	case StageLaidOut:
		return "laid-out"
	case StageRelocated:
		return "relocated"
	case StageWritten:
		return "written"
	}
	return "unknown"
}

// Link runs the whole pipeline: load args, link, write ctx.Arg.Output.
// Nothing is written unless every earlier stage succeeds.
func Link(ctx *Context, args []string) error {
	if err := ReadInputFiles(ctx, args); err != nil {
		return err
	}
	ctx.Stage = StageLoaded

	if err := LinkObjects(ctx); err != nil {
		return err
	}

	if err := WriteOutput(ctx); err != nil {
		return err
	}
	ctx.Stage = StageWritten
	return nil
}

// LinkObjects links the modules already in ctx.Objs and leaves the image
// in ctx.Buf.
func LinkObjects(ctx *Context) error {
	ctx.Stage = StageLoaded

	MarkLiveObjects(ctx)
	ctx.Stage = StageSelected

	if err := AssignAddresses(ctx); err != nil {
		return err
	}
	if err := DefineSymbols(ctx); err != nil {
		return err
	}
	if err := ClaimUnresolvedSymbols(ctx); err != nil {
		return err
	}
	ctx.Stage = StageLaidOut

	if err := ApplyRelocations(ctx); err != nil {
		return err
	}
	ctx.Stage = StageRelocated

	CopyBuf(ctx)
	return nil
}
