// Package iris holds two example workflows whose tasks pass no data to
// each other but still have to run in order.
//
// The tasks share state only through the object store:
//
//   - create_bucket creates the "chain-flyte-entities" bucket and tolerates
//     a bucket the caller already owns
//   - write uploads a one-row iris table as "iris.csv"
//   - read downloads "iris.csv" and parses it back into a Table
//
// chain_tasks_wf chains the three tasks directly. chain_workflows_wf chains
// create_bucket with two sub-workflows, one wrapping write and one wrapping
// read. In both, read is guaranteed to start only after the object exists.
package iris
