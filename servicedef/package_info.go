// Package servicedef contains the data types used in communication between the test
// harness and an allocator test service: the status/capability representation, the
// session creation parameters, and the parameters and responses of every allocator
// command.
//
// The harness is a consumer, not a definer, of the allocator HAL contract; these types
// mirror the published interface and must not be changed independently of it.
package servicedef
