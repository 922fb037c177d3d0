// Package inspector shows one indexed file at a time: its stored path, the
// JSON text of its name embedding, the classes and functions parsed from
// its current contents, and the file itself.
//
// The inspector drives views through the small interfaces in views.go, so
// the terminal UI, tests and any other front end plug in the same way.
package inspector
