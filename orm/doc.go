/*
Package orm provides an easy to use db wrapper.

Models are protobuf messages stored under a bucket prefix. A bucket can
maintain secondary indexes over its models and hand out sequential keys
for models that have no natural identifier.

	bucket:<key>              the model
	_s.<bucket>               the key sequence of the bucket
	_i.<bucket>_<index>:<v>   references of all models indexed under v
*/
package orm
