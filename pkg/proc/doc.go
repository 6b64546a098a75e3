// Package proc runs external programs on behalf of the orchestrator.
//
// Two attachment modes are supported. Captured mode pipes stdout and stderr
// into buffers and keeps stdin closed; it is used for the pre-provision
// hooks, the control-socket sweep and the configuration-management engine
// itself. Interactive mode inherits the controlling terminal so prompts
// raised by the child (a privilege-escalation password, typically) stay
// visible and their input stays hidden.
//
// The engine gets one special case: ansible-playbook exits non-zero when any
// task fails, while still printing a complete JSON report on stdout. A
// captured run with EngineOutput set therefore treats a non-zero exit whose
// stdout opens with "{" as a success and hands the report back verbatim.
package proc
