// Package formstate implements the form state controller: current values,
// per-field touched flags, and errors derived from a validation schema after
// every change. Errors surface to renderers only once a field is touched;
// Submit marks every field touched when validation fails so all messages
// appear at once, and hands a snapshot to the submit handler otherwise.
//
// Typical use:
//
//	ctrl, err := formstate.New(profile.Definition(),
//	    formstate.WithSubmitHandler(submit.NewAcknowledger(submit.WithWriter(os.Stdout))),
//	)
//	_ = ctrl.SetValue("name", "Alice")
//	_ = ctrl.Toggle("hobbies", "reading")
//	result, err := ctrl.Submit(ctx)
package formstate
