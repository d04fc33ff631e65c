// Package predict renders inline ghost-text predictions for a text-entry
// field.
//
// A Controller listens to the field's input, key and blur events, debounces
// prediction requests, cancels superseded ones and keeps at most one
// prediction. An Overlay keeps a mirror node aligned with the field so the
// prediction appears to continue the field's own text.
//
// Everything environment specific (computed style, geometry, resize
// notification, layer creation, timers, the owning event loop) is reached
// through Host. Controller and Overlay methods must be called from the
// goroutine that owns the host's event loop; asynchronous work comes back to
// it through Host.Post.
package predict
