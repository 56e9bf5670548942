/*
Package utils contains the decorators shared by every extension: atomic
save points, panic recovery, logging, metrics and result tagging.
*/
package utils
