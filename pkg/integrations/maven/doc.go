// Package maven lists artifact versions from a Maven repository by reading
// its maven-metadata.xml. Artifacts are named by "groupId:artifactId"
// coordinates, for example "com.google.guava:guava".
package maven
