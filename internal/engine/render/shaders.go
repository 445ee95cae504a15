package render

const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec4 vColor;

void main() {
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
	vColor = aColor;
}
`

const meshFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;

uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform float uAmbient;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), uLightDir), 0.0);
	float light = uAmbient + (1.0 - uAmbient) * diffuse;
	FragColor = vec4(vColor.rgb * uLightColor * light, vColor.a);
}
`

// Particles are drawn as screen-facing points scaled by distance.
const particleVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uViewProj;
uniform mat4 uModel;
uniform float uPointSize;

out vec4 vColor;

void main() {
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
	gl_PointSize = uPointSize / max(gl_Position.w, 0.001);
	vColor = aColor;
}
`

const particleFragmentShader = `
#version 410 core

in vec4 vColor;

out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;
uniform mat4 uModel;

void main() {
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`
